package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/validation"
)

// ErrSelfDelete is returned when a user tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete the current user")

var roleChoices = []string{string(models.RoleJefe), string(models.RoleAdmin), string(models.RoleVendedor)}

// UserFromRemote translates a record, parsing the role and dropping extra
// settings that do not apply to it.
func UserFromRemote(r remote.UserRecord) models.User {
	return models.User{
		ID:    r.ID,
		Name:  strings.TrimSpace(r.Nombre),
		Email: strings.TrimSpace(r.Email),
		Role:  models.ParseRole(r.Rol),
		Extra: models.UserExtra{
			CanModifyPrices:   r.Extra.CanModifyPrices,
			AssignedCompanyID: r.Extra.AssignedCompanyID.String(),
		},
	}.NormalizeExtra()
}

// UserInput is the create/update payload. Password is write-only and
// optional on update.
type UserInput struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password,omitempty"`
	Role              string `json:"role"`
	CanModifyPrices   bool   `json:"canModifyPrices"`
	AssignedCompanyID string `json:"assignedCompanyId"`
}

// Validate checks the input; creating requires a password.
func (in UserInput) Validate(creating bool) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.OneOf("role", strings.ToLower(strings.TrimSpace(in.Role)), roleChoices, v)
	if creating {
		validation.Required("password", in.Password, v)
	}
	if in.Password != "" && len(in.Password) < 6 {
		v["password"] = "too_short"
	}
	return v
}

// ToRemote builds the record, normalizing extra settings for the role.
func (in UserInput) ToRemote() remote.UserRecord {
	u := models.User{
		Role:  models.ParseRole(in.Role),
		Extra: models.UserExtra{CanModifyPrices: in.CanModifyPrices, AssignedCompanyID: strings.TrimSpace(in.AssignedCompanyID)},
	}.NormalizeExtra()
	return remote.UserRecord{
		Nombre:   strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Rol:      string(u.Role),
		Extra: remote.UserExtraRecord{
			CanModifyPrices:   u.Extra.CanModifyPrices,
			AssignedCompanyID: models.ID(u.Extra.AssignedCompanyID),
		},
	}
}

// UserService manages users on the data service.
type UserService struct {
	remote *remote.Client
}

func NewUserService(rc *remote.Client) *UserService { return &UserService{remote: rc} }

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	recs, err := s.remote.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, UserFromRemote(r))
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, validation.Violations, error) {
	if v := in.Validate(true); !v.Empty() {
		return models.User{}, v, nil
	}
	rec, err := s.remote.Users.Create(ctx, in.ToRemote())
	if err != nil {
		return models.User{}, nil, err
	}
	return UserFromRemote(*rec), nil, nil
}

func (s *UserService) Update(ctx context.Context, id models.ID, in UserInput) (models.User, validation.Violations, error) {
	if v := in.Validate(false); !v.Empty() {
		return models.User{}, v, nil
	}
	rec := in.ToRemote()
	rec.ID = id
	out, err := s.remote.Users.Update(ctx, id, rec)
	if err != nil {
		return models.User{}, nil, err
	}
	return UserFromRemote(*out), nil, nil
}

func (s *UserService) Delete(ctx context.Context, current models.User, id models.ID) error {
	if current.ID == id {
		return ErrSelfDelete
	}
	return s.remote.Users.Delete(ctx, id)
}
