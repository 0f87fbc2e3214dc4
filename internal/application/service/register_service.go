package service

import (
	"context"
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
)

// RegisterService lists registers and binds one to a workstation
type RegisterService struct {
	registerRepo repository.RegisterRepository
	sessionRepo  repository.SessionRepository
}

// NewRegisterService creates a new register service
func NewRegisterService(registerRepo repository.RegisterRepository, sessionRepo repository.SessionRepository) *RegisterService {
	return &RegisterService{
		registerRepo: registerRepo,
		sessionRepo:  sessionRepo,
	}
}

// ListRegisters returns every register with its open session, if any
func (s *RegisterService) ListRegisters(ctx context.Context) ([]entity.RegisterView, error) {
	registers, err := s.registerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return entity.BuildRegisterViews(registers, sessions), nil
}

// SelectRegister binds a register to the workstation. The backend is
// re-read so the decision uses current data: with an open session the
// workstation goes straight to selling, otherwise to the open-session step.
func (s *RegisterService) SelectRegister(ctx context.Context, ws *Workstation, registerID string) (*entity.RegisterView, error) {
	if ws.Session.IsOpen() && ws.Register != nil && ws.Register.ID != registerID {
		return nil, apperror.NewConflictError("Close the current session before switching registers")
	}

	views, err := s.ListRegisters(ctx)
	if err != nil {
		return nil, err
	}

	var view *entity.RegisterView
	for i := range views {
		if views[i].ID == registerID {
			view = &views[i]
			break
		}
	}
	if view == nil {
		return nil, apperror.NewNotFoundError("Register")
	}
	if !view.Active {
		return nil, apperror.ErrInactiveRegister
	}

	register := view.Register
	ws.Register = &register
	ws.Pending = nil
	if view.ActiveSession != nil {
		ws.Session = view.ActiveSession
		ws.Screen = enum.ScreenSelling
	} else {
		ws.Session = nil
		ws.Screen = enum.ScreenOpenSession
	}
	return view, nil
}

// Deselect returns to register selection. Not allowed while a session is
// open on the workstation.
func (s *RegisterService) Deselect(ws *Workstation) error {
	if ws.Session.IsOpen() {
		return apperror.NewConflictError("Close the current session before switching registers")
	}
	ws.endSession()
	ws.Screen = enum.ScreenRegisterSelection
	return nil
}

// CreateRegisterInput represents the create register input
type CreateRegisterInput struct {
	Title string
	Notes string
}

// CreateRegister creates a new active register on the backend
func (s *RegisterService) CreateRegister(ctx context.Context, input CreateRegisterInput) (*entity.Register, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "title", Message: "Please enter register name"},
		})
	}
	return s.registerRepo.Create(ctx, repository.CreateRegisterInput{
		Title:  title,
		Notes:  strings.TrimSpace(input.Notes),
		Active: true,
	})
}
