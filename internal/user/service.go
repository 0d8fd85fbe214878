package user

import (
	"context"
	"strings"

	"github.com/fkhayef/reimburse/pkg/apperror"
	"github.com/fkhayef/reimburse/pkg/middleware"
)

// Common errors
var (
	ErrUserNotFound           = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrUsernameTaken          = apperror.Validation("USERNAME_TAKEN", "Username already exists")
	ErrEmailTaken             = apperror.Validation("EMAIL_TAKEN", "Email already in use")
	ErrWeakPassword           = apperror.Validation("WEAK_PASSWORD", "Password does not meet the policy")
	ErrStaffRequired          = apperror.Authorization("FORBIDDEN", "Forbidden")
	ErrSuperuserRequired      = apperror.Authorization("SUPERUSER_REQUIRED", "Only superadmin can update users")
	ErrCannotUpdateSelf       = apperror.Validation("CANNOT_UPDATE_SELF", "Cannot update yourself")
	ErrCannotDisableSelf      = apperror.Validation("CANNOT_DISABLE_SELF", "Cannot delete or disable yourself")
	ErrCannotDisableSuperuser = apperror.Validation("CANNOT_DISABLE_SUPERUSER", "Cannot delete or disable superadmin users")
)

// Service handles user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service with repository dependency injected
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a staff account on behalf of actor
func (s *Service) Create(ctx context.Context, actor *middleware.Principal, req *CreateUserRequest) (*User, error) {
	if actor == nil || !actor.IsStaff {
		return nil, ErrStaffRequired
	}

	return s.create(ctx, &User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		IsActive:  true,
		IsStaff:   true,
		CreatedBy: &Ref{ID: actor.UserID, Username: actor.Username},
	}, req.Password)
}

// Bootstrap creates an account without an acting user, for the add-user command
func (s *Service) Bootstrap(ctx context.Context, username, email, password string, superuser bool) (*User, error) {
	return s.create(ctx, &User{
		Username:    strings.TrimSpace(username),
		Email:       strings.TrimSpace(email),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: superuser,
	}, password)
}

func (s *Service) create(ctx context.Context, u *User, password string) (*User, error) {
	if u.Username == "" {
		return nil, apperror.Validation("USERNAME_REQUIRED", "username and password required")
	}

	taken, err := s.repo.UsernameTaken(ctx, u.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	emailTaken, err := s.repo.EmailTaken(ctx, u.Email, 0)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}

	if err := ValidatePassword(password, u.Username); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	return s.repo.Create(ctx, u)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves staff users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListStaff(ctx, perPage, offset)
}

// Update changes username, password or active flag of another user. Superusers only.
func (s *Service) Update(ctx context.Context, actor *middleware.Principal, id int64, req *UpdateUserRequest) (*User, error) {
	if actor == nil || !actor.IsSuperuser {
		return nil, ErrSuperuserRequired
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.ID == actor.UserID {
		return nil, ErrCannotUpdateSelf
	}

	var changes Changes
	username := existing.Username

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		username = strings.TrimSpace(*req.Username)
		taken, err := s.repo.UsernameTaken(ctx, username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		changes.Username = &username
	}

	if req.Password != nil && *req.Password != "" {
		if err := ValidatePassword(*req.Password, username); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	changes.IsActive = req.IsActive

	if changes == (Changes{}) {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// Disable deactivates another non-superuser account. Superusers only.
func (s *Service) Disable(ctx context.Context, actor *middleware.Principal, id int64) error {
	if actor == nil || !actor.IsSuperuser {
		return ErrSuperuserRequired.WithMessage("Only superadmin can delete or disable users")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ID == actor.UserID {
		return ErrCannotDisableSelf
	}
	if existing.IsSuperuser {
		return ErrCannotDisableSuperuser
	}

	inactive := false
	_, err = s.repo.Update(ctx, id, Changes{IsActive: &inactive})
	return err
}

// LoadPrincipal implements middleware.PrincipalLoader
func (s *Service) LoadPrincipal(ctx context.Context, userID int64) (*middleware.Principal, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return u.Principal(), nil
}
