package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/milhojas/pedidos-api/internal/application/dto"
	"github.com/milhojas/pedidos-api/internal/application/usecase"
	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
)

// fakeUserRepo repositorio de usuarios en memoria indexado por ID.
type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List() ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func validRequest() dto.SaveUserRequest {
	return dto.SaveUserRequest{
		Username:        "tienda4",
		Password:        "secreta123",
		ConfirmPassword: "secreta123",
		Role:            entity.RoleStore,
		Name:            "Panadería del Sur",
	}
}

func TestUserCreate_GuardaHashBcrypt(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	out, err := uc.Create(validRequest())
	require.NoError(t, err)
	require.NotNil(t, out)

	stored, err := repo.GetByUsername("tienda4")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEqual(t, "secreta123", stored.PasswordHash,
		"la contraseña nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")),
		"el hash almacenado debe verificar contra la contraseña original")
}

// El mismatch de confirmación se rechaza localmente: no llega a la base.
func TestUserCreate_ConfirmacionNoCoincide_Rechazado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	in := validRequest()
	in.ConfirmPassword = "otra-cosa"

	out, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, out)
	assert.Empty(t, repo.users, "un rechazo local no debe crear nada")
}

func TestUserCreate_RolInvalido_Rechazado(t *testing.T) {
	uc := usecase.NewUserUseCase(newFakeUserRepo())

	in := validRequest()
	in.Role = "superuser"

	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserCreate_UsernameDuplicado_Rechazado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	_, err := uc.Create(validRequest())
	require.NoError(t, err)

	_, err = uc.Create(validRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Password vacío en edición significa "conservar la contraseña actual".
func TestUserUpdate_PasswordVacioConservaHash(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	created, err := uc.Create(validRequest())
	require.NoError(t, err)

	before, _ := repo.GetByID(created.ID)

	in := validRequest()
	in.Password = ""
	in.ConfirmPassword = ""
	in.Name = "Panadería del Sur (renombrada)"

	out, err := uc.Update(created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Panadería del Sur (renombrada)", out.Name)

	after, _ := repo.GetByID(created.ID)
	assert.Equal(t, before.PasswordHash, after.PasswordHash,
		"sin password nuevo el hash no cambia")
}

func TestUserUpdate_Inexistente(t *testing.T) {
	uc := usecase.NewUserUseCase(newFakeUserRepo())

	_, err := uc.Update("no-existe", validRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
