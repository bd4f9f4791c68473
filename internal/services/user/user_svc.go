package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

type UserDTO struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
}

var (
	ErrUserNotFound = errors.New("user not found")
)

type IUserService interface {
	// SignUp returns the existing user for the email, creating one first if
	// necessary.
	SignUp(ctx context.Context, email, name, profilePic string) (*UserDTO, error)
	GetUser(ctx context.Context, id string) (*UserDTO, error)
}

type userService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) IUserService {
	return &userService{db: db}
}

func (svc *userService) SignUp(ctx context.Context, email, name, profilePic string) (*UserDTO, error) {
	dto, err := svc.byEmail(ctx, email)
	if err == nil {
		return dto, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	dto = &UserDTO{
		ID:         ulid.Make().String(),
		Email:      email,
		Name:       name,
		ProfilePic: profilePic,
	}
	const ins = `
	  INSERT INTO users (id, email, name, profile_pic)
	       VALUES ($1, $2, $3, $4)
	  ON CONFLICT (email) DO NOTHING
	    RETURNING created_at`
	err = svc.db.QueryRowContext(ctx, ins,
		dto.ID, dto.Email, dto.Name, dto.ProfilePic,
	).Scan(&dto.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// lost the insert race, the row exists now
		return svc.byEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (svc *userService) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	return svc.get(ctx, `SELECT id, email, name, profile_pic, created_at
	                       FROM users WHERE id = $1`, id)
}

func (svc *userService) byEmail(ctx context.Context, email string) (*UserDTO, error) {
	return svc.get(ctx, `SELECT id, email, name, profile_pic, created_at
	                       FROM users WHERE email = $1`, email)
}

func (svc *userService) get(ctx context.Context, q, arg string) (*UserDTO, error) {
	row := svc.db.QueryRowContext(ctx, q, arg)
	dto := &UserDTO{}
	if err := row.Scan(&dto.ID, &dto.Email, &dto.Name,
		&dto.ProfilePic, &dto.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto, nil
}
