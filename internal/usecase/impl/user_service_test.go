package impl

import (
	"context"
	"testing"

	"sabor/internal/domain/constants"
	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestService(factory *fakeRepoFactory, tokens *fakeTokenService) usecase.UserUsecase {
	return NewUserService(UserServiceParams{
		TxManager:        &fakeTxManager{factory: factory},
		UserRepo:         factory.users,
		RefreshTokenRepo: factory.tokens,
		Hasher:           fakePasswordHasher{},
		TokenService:     tokens,
		Logger:           newDiscardLogger(),
	})
}

func registerUser(t *testing.T, svc usecase.UserUsecase, email string) *entity.User {
	t.Helper()

	output, err := svc.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Name:     "Maria Silva",
		Email:    email,
		Password: "SenhaForte1",
	})
	require.NoError(t, err)

	return output.User
}

func TestUserService_RegisterUser(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	user := registerUser(t, svc, "maria@exemplo.com")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "maria@exemplo.com", user.Email)

	// The credential is stored separately from the user.
	auth, err := factory.auths.FindAuthentication(context.Background(), entity.ProviderTypeEmail, "maria@exemplo.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, auth.UserID)
	assert.Equal(t, "hashed:SenhaForte1", auth.PasswordHash)
}

func TestUserService_RegisterUser_DuplicateEmail(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	registerUser(t, svc, "maria@exemplo.com")

	_, err := svc.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Name:     "Outra Maria",
		Email:    "maria@exemplo.com",
		Password: "OutraSenha1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_RegisterUser_WeakPassword(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	_, err := svc.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Name:     "Maria Silva",
		Email:    "maria@exemplo.com",
		Password: "123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
}

func TestUserService_Login(t *testing.T) {
	factory := newFakeRepoFactory()
	tokens := newFakeTokenService()
	svc := newUserTestService(factory, tokens)

	user := registerUser(t, svc, "maria@exemplo.com")

	output, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "maria@exemplo.com",
		Password: "SenhaForte1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, user.ID, output.User.ID)

	// The session is persisted under the token hash.
	_, err = factory.tokens.FindRefreshTokenByHash(context.Background(), tokens.HashToken(output.RefreshToken))
	assert.NoError(t, err)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	registerUser(t, svc, "maria@exemplo.com")

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "maria@exemplo.com",
		Password: "errada",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "ninguem@exemplo.com",
		Password: "qualquer",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_DemoAccountProvisionedOnFirstUse(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	first, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    constants.DemoEmail,
		Password: constants.DemoPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.DemoName, first.User.Name)

	// The second demo login reuses the provisioned account.
	second, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    constants.DemoEmail,
		Password: constants.DemoPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, factory.users.users, 1)
}

func TestUserService_RefreshToken(t *testing.T) {
	factory := newFakeRepoFactory()
	tokens := newFakeTokenService()
	svc := newUserTestService(factory, tokens)

	registerUser(t, svc, "maria@exemplo.com")
	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "maria@exemplo.com",
		Password: "SenhaForte1",
	})
	require.NoError(t, err)

	output, err := svc.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEqual(t, login.AccessToken, output.AccessToken)
}

func TestUserService_RefreshToken_Rejections(t *testing.T) {
	factory := newFakeRepoFactory()
	tokens := newFakeTokenService()
	svc := newUserTestService(factory, tokens)

	registerUser(t, svc, "maria@exemplo.com")
	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "maria@exemplo.com",
		Password: "SenhaForte1",
	})
	require.NoError(t, err)

	// Not a token at all.
	_, err = svc.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// An access token is not accepted in place of a refresh token.
	_, err = svc.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// A logged-out session cannot be refreshed.
	require.NoError(t, svc.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: login.RefreshToken}))
	_, err = svc.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.Error(t, err)
}

func TestUserService_Logout(t *testing.T) {
	factory := newFakeRepoFactory()
	tokens := newFakeTokenService()
	svc := newUserTestService(factory, tokens)

	registerUser(t, svc, "maria@exemplo.com")
	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "maria@exemplo.com",
		Password: "SenhaForte1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	_, err = factory.tokens.FindRefreshTokenByHash(context.Background(), tokens.HashToken(login.RefreshToken))
	assert.Error(t, err)
}

func TestUserService_Profile(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newUserTestService(factory, newFakeTokenService())

	user := registerUser(t, svc, "maria@exemplo.com")

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", profile.Name)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		Name:  "Maria Souza",
		Phone: "+55 11 91234-5678",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name)
	assert.Equal(t, "+55 11 91234-5678", updated.Phone)

	// Empty fields leave the current values untouched.
	kept, err := svc.UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{Phone: "+55 11 99999-0000"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", kept.Name)
	assert.Equal(t, "+55 11 99999-0000", kept.Phone)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
