package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("User not found")
	ErrEmailExists = core.NewConflictError("Email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// FilterUsers applies AND on available QueryFilter fields and returns the
		// page of matches plus the total match count.
		// QueryFilter.Search does a case-insensitive match on Name or Email.
		FilterUsers(ctx context.Context, filter QueryFilter, limit, offset int) ([]User, int, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) (int, error)
		CountUsers(ctx context.Context, role string) (int, error)
		// UserGrowth returns per-day user creation counts since the given time.
		UserGrowth(ctx context.Context, since time.Time) ([]core.TrendPoint, error)
	}

	Service interface {
		Create(ctx context.Context, nu NewUser) (User, error)
		Filter(ctx context.Context, filter QueryFilter, limit, offset int) ([]User, int, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error)
		Delete(ctx context.Context, ids ...string) error
		SetLastLogin(ctx context.Context, usr User) (User, error)
		Count(ctx context.Context, role string) (int, error)
		Growth(ctx context.Context, since time.Time) ([]core.TrendPoint, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *service {
	return &service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.repo.CheckEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		Avatar:    nu.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Welcome to %s", svc.conf.AppName),
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{usr.Name},
	})
	return usr, nil
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, limit, offset int) ([]User, int, error) {
	return svc.repo.FilterUsers(ctx, filter, limit, offset)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return User{}, err
	}

	if uu.Email != "" && uu.Email != usr.Email {
		if err = svc.repo.CheckEmailUniqueness(ctx, uu.Email, usr); err != nil {
			return User{}, err
		}
		usr.Email = uu.Email
	}
	if uu.Name != "" {
		usr.Name = uu.Name
	}
	if uu.Role != "" {
		usr.Role = uu.Role
	}
	if uu.Avatar != "" {
		usr.Avatar = uu.Avatar
	}
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return User{}, err
	}

	if up.Name != "" {
		usr.Name = up.Name
	}
	usr.Bio = core.CleanString(up.Bio)
	usr.Phone = core.CleanString(up.Phone)
	usr.Address = core.CleanString(up.Address)
	usr.Avatar = core.CleanString(up.Avatar)

	// role-specific fields
	switch usr.Role {
	case RoleTeacher:
		usr.Department = core.CleanString(up.Department)
		usr.Expertise = core.CleanString(up.Expertise)
	case RoleStudent:
		usr.StudentNumber = core.CleanString(up.StudentNumber)
		usr.EnrollmentYear = core.CleanString(up.EnrollmentYear)
	}
	usr.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteUsersByID(ctx, ids...)
	return err
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Count(ctx context.Context, role string) (int, error) {
	return svc.repo.CountUsers(ctx, role)
}

func (svc *service) Growth(ctx context.Context, since time.Time) ([]core.TrendPoint, error) {
	return svc.repo.UserGrowth(ctx, since)
}
