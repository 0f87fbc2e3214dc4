package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SessionService drives the cash-drawer session of a workstation's register.
// Running totals always come from the backend; nothing here adds to them.
type SessionService struct {
	sessionRepo repository.SessionRepository
	publisher   events.Publisher
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepository, publisher events.Publisher) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// OpenResult is the outcome of an open request. AlreadyActive is set when an
// existing open session was adopted instead of creating one.
type OpenResult struct {
	Session       *entity.Session `json:"session"`
	AlreadyActive bool            `json:"already_active"`
	Message       string          `json:"message"`
}

const sessionAlreadyActive = "This register already has an active session"

// Open opens a session on the workstation's register. The backend is
// checked first; an open session found there (or reported through a 409)
// is adopted rather than treated as a failure.
func (s *SessionService) Open(ctx context.Context, ws *Workstation, openingBalance decimal.Decimal) (*OpenResult, error) {
	if ws.Register == nil {
		return nil, apperror.ErrNoRegister
	}
	if openingBalance.IsNegative() {
		return nil, apperror.NewWarning("Opening balance cannot be negative")
	}
	if ws.Session.IsOpen() {
		return &OpenResult{Session: ws.Session, AlreadyActive: true, Message: sessionAlreadyActive}, nil
	}

	if existing, err := s.findOpen(ctx, ws.Register.ID); err != nil {
		return nil, err
	} else if existing != nil {
		s.adopt(ws, existing)
		return &OpenResult{Session: existing, AlreadyActive: true, Message: sessionAlreadyActive}, nil
	}

	now := s.now()
	session, err := s.sessionRepo.Open(ctx, repository.OpenSessionInput{
		Title:          fmt.Sprintf("Session %s %s", now.Format("2006-01-02"), now.Format("15:04:05")),
		StartAt:        now,
		OpeningBalance: openingBalance,
		RegisterID:     ws.Register.ID,
	})
	if err != nil {
		if !apperror.IsConflict(err) {
			return nil, err
		}
		// Another terminal won the race; switch to its session.
		existing, findErr := s.findOpen(ctx, ws.Register.ID)
		if findErr != nil || existing == nil {
			return nil, err
		}
		s.adopt(ws, existing)
		return &OpenResult{Session: existing, AlreadyActive: true, Message: sessionAlreadyActive}, nil
	}

	if session.RegisterTitle == "" {
		session.RegisterTitle = ws.Register.Title
	}
	s.adopt(ws, session)
	s.publisher.Publish(ctx, events.NewEvent(events.TopicSessionOpened, ws.ID, session))
	return &OpenResult{Session: session, Message: "Session opened successfully"}, nil
}

func (s *SessionService) findOpen(ctx context.Context, registerID string) (*entity.Session, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return entity.ActiveSessionFor(registerID, sessions), nil
}

func (s *SessionService) adopt(ws *Workstation, session *entity.Session) {
	ws.Session = session
	if ws.Screen != enum.ScreenReceipt {
		ws.Screen = enum.ScreenSelling
	}
}

// RequestClose prepares closing the open session. Nothing is sent to the
// backend until the returned confirmation is accepted.
func (s *SessionService) RequestClose(ws *Workstation, closingBalance decimal.Decimal) (*entity.PendingConfirmation, error) {
	if !ws.Session.IsOpen() {
		return nil, apperror.ErrNoActiveSession
	}
	if closingBalance.IsNegative() {
		return nil, apperror.NewWarning("Closing balance cannot be negative")
	}

	summary := ws.Session.Summarize(closingBalance)
	ws.Pending = &entity.PendingConfirmation{
		ID:        uuid.New().String(),
		Kind:      enum.ConfirmCloseSession,
		Message:   fmt.Sprintf("Close session with balance %s? This action cannot be undone.", closingBalance.StringFixed(2)),
		Summary:   &summary,
		CreatedAt: s.now(),
	}
	return ws.Pending, nil
}

// CloseResult is returned once a session is closed
type CloseResult struct {
	Session *entity.Session      `json:"session"`
	Summary *entity.CloseSummary `json:"summary"`
}

// Accept runs the pending action. A failed action keeps the confirmation
// so the operator can try again.
func (s *SessionService) Accept(ctx context.Context, ws *Workstation, confirmationID string) (*CloseResult, error) {
	pending := ws.Pending
	if pending == nil || pending.ID != confirmationID {
		return nil, apperror.ErrNoPendingAction
	}

	switch pending.Kind {
	case enum.ConfirmCloseSession:
		return s.close(ctx, ws, pending)
	default:
		ws.Pending = nil
		return nil, apperror.ErrNoPendingAction
	}
}

// Cancel drops the pending confirmation without side effects
func (s *SessionService) Cancel(ws *Workstation, confirmationID string) error {
	if ws.Pending == nil || ws.Pending.ID != confirmationID {
		return apperror.ErrNoPendingAction
	}
	ws.Pending = nil
	return nil
}

func (s *SessionService) close(ctx context.Context, ws *Workstation, pending *entity.PendingConfirmation) (*CloseResult, error) {
	if !ws.Session.IsOpen() {
		ws.Pending = nil
		return nil, apperror.ErrNoActiveSession
	}

	closing := pending.Summary.ClosingBalance
	closed, err := s.sessionRepo.Close(ctx, ws.Session.ID, closing)
	if err != nil {
		return nil, err
	}

	result := &CloseResult{Session: closed, Summary: pending.Summary}
	ws.endSession()
	ws.Receipt = nil
	ws.Screen = enum.ScreenRegisterSelection

	s.publisher.Publish(ctx, events.NewEvent(events.TopicSessionClosed, ws.ID, result))
	return result, nil
}

// Refresh reloads sessions from the backend and replaces the workstation's
// view, totals included. A session that is no longer open ends the
// workstation's session; a session opened elsewhere on the selected
// register is adopted.
func (s *SessionService) Refresh(ctx context.Context, ws *Workstation) error {
	if ws.Register == nil {
		return nil
	}
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return err
	}

	if ws.Session == nil {
		if open := entity.ActiveSessionFor(ws.Register.ID, sessions); open != nil {
			s.adopt(ws, open)
		}
		return nil
	}

	for i := range sessions {
		if sessions[i].ID == ws.Session.ID {
			if sessions[i].IsOpen() {
				current := sessions[i]
				ws.Session = &current
				return nil
			}
			break
		}
	}

	log.Printf("Session %s on terminal %s is no longer open", ws.Session.ID, ws.ID)
	ws.endSession()
	return nil
}
