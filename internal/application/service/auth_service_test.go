package service

import (
	"testing"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) (*AuthService, *utils.JWTManager) {
	jwt := utils.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(f.store.Users(), f.store.Shops(), jwt), jwt
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc, jwt := newAuthService(f)

	out, err := svc.Register(f.ctx, &RegisterInput{
		ShopName: "Gupta Kirana",
		State:    "Delhi",
		GSTIN:    ptr("07abcde1234f1z5"),
		Name:     "Mohan Gupta",
		Email:    "Mohan@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "mohan@example.com", out.User.Email)
	assert.Equal(t, enum.UserRoleOwner, out.User.Role)
	require.NotNil(t, out.User.Shop)
	assert.Equal(t, "07ABCDE1234F1Z5", *out.User.Shop.GSTIN)
	assert.Regexp(t, `^gupta-kirana-[0-9a-f]{6}$`, out.User.Shop.Slug)
	assert.EqualValues(t, 900, out.ExpiresIn)

	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ShopID, claims.ShopID)
	assert.Equal(t, "owner", claims.Role)

	login, err := svc.Login(f.ctx, &LoginInput{Email: "mohan@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, login.User.ID)

	_, err = svc.Login(f.ctx, &LoginInput{Email: "mohan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(f.ctx, &LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Register(f.ctx, &RegisterInput{
		ShopName: "Another", State: "Delhi", Name: "M", Email: "mohan@example.com", Password: "another-pass",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f)

	_, err := svc.Register(f.ctx, &RegisterInput{ShopName: "S", State: "Goa", Name: "N", Email: "n@example.com", Password: "short"})
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "password", appErr.Errors[0].Field)

	_, err = svc.Register(f.ctx, &RegisterInput{ShopName: "S", State: "Goa", GSTIN: ptr("123"), Name: "N", Email: "n@example.com", Password: "long-enough"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f)

	out, err := svc.Register(f.ctx, &RegisterInput{
		ShopName: "Joshi Stores", State: "Gujarat", Name: "Kiran Joshi", Email: "kiran@example.com", Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(f.ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(f.ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	me, err := svc.GetCurrentUser(f.ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kiran Joshi", me.Name)
}

func TestCreateStaff(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users())

	cashier, err := svc.CreateStaff(f.ctx, &CreateStaffInput{
		ShopID: f.shop.ID, Name: "Sunil", Email: "Sunil@Example.com", Password: "counter-01", Role: "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.UserRoleCashier, cashier.Role)
	assert.Equal(t, f.shop.ID, cashier.ShopID)
	assert.True(t, utils.CheckPasswordHash("counter-01", cashier.Password))

	_, err = svc.CreateStaff(f.ctx, &CreateStaffInput{
		ShopID: f.shop.ID, Name: "Dup", Email: "sunil@example.com", Password: "counter-02", Role: "manager",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = svc.CreateStaff(f.ctx, &CreateStaffInput{
		ShopID: f.shop.ID, Name: "Boss", Email: "boss@example.com", Password: "counter-03", Role: "owner",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "a shop has one owner")

	staff, err := svc.ListStaff(f.ctx, f.shop.ID)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}
