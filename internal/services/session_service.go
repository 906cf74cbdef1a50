package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/utils"
	"wakacjecypr/internal/wizard"

	"github.com/google/uuid"
)

// SessionView is what the session API returns after every operation.
type SessionView struct {
	ID         string             `json:"id"`
	State      wizard.State       `json:"state"`
	Quote      models.QuoteResult `json:"quote"`
	Status     wizard.StatusLine  `json:"status"`
	Vehicles   []models.Vehicle   `json:"vehicles"`
	FocusField string             `json:"focusField,omitempty"`
	FleetError string             `json:"fleetError,omitempty"`
}

// SessionService runs wizard sessions on top of a SessionStore. Each
// session gets its own fleet reloader so offer switches are serialized per
// session.
//
// SubmitTimeout bounds one submission. A submitting flag older than twice
// that is treated as abandoned and cleared on the next access.
type SessionService struct {
	Store         repositories.SessionStore
	Fleet         *repositories.CachedFleetSource
	Submitter     wizard.Submitter
	Now           func() time.Time
	ReloadWait    time.Duration
	SubmitTimeout time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	locks     map[string]*sync.Mutex
	reloaders map[string]*offer.Reloader
}

func NewSessionService(store repositories.SessionStore, fleet *repositories.CachedFleetSource, submitter wizard.Submitter) *SessionService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionService{
		Store:         store,
		Fleet:         fleet,
		Submitter:     submitter,
		Now:           utils.NowUTC,
		ReloadWait:    5 * time.Second,
		SubmitTimeout: 20 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
		locks:         make(map[string]*sync.Mutex),
		reloaders:     make(map[string]*offer.Reloader),
	}
}

// Close stops every reloader.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reloaders {
		r.Close()
		delete(s.reloaders, id)
	}
	s.cancel()
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s *SessionService) submitTimeout() time.Duration {
	if s.SubmitTimeout > 0 {
		return s.SubmitTimeout
	}
	return 20 * time.Second
}

// detached keeps the values of ctx but not its cancellation.
func (s *SessionService) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout())
}

func (s *SessionService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *SessionService) reloader(id string) *offer.Reloader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reloaders[id]; ok {
		return r
	}
	r := offer.NewReloader(s.ctx, s.Fleet)
	s.reloaders[id] = r
	return r
}

func (s *SessionService) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reloaders[id]; ok {
		r.Close()
		delete(s.reloaders, id)
	}
	delete(s.locks, id)
}

// fleetFor prefers the session's reloaded fleet and falls back to whatever
// the shared cache holds for the offer.
func (s *SessionService) fleetFor(r *offer.Reloader) func(models.Offer) []models.Vehicle {
	return func(o models.Offer) []models.Vehicle {
		if cur, fleet, ok := r.Current(); ok && cur == o {
			return fleet
		}
		fleet, _ := s.Fleet.Peek(o)
		return fleet
	}
}

func (s *SessionService) wizardFor(id string, st wizard.State, r *offer.Reloader) *wizard.Wizard {
	return wizard.New(wizard.FleetQuoter(s.fleetFor(r)), s.Submitter,
		wizard.WithState(st),
		wizard.WithSessionID(id),
		wizard.WithClock(s.now),
		wizard.OnOfferChange(r.Request),
	)
}

func (s *SessionService) waitReload(ctx context.Context, r *offer.Reloader) {
	wait := s.ReloadWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	_ = r.Wait(ctx)
}

func (s *SessionService) view(id string, w *wizard.Wizard, r *offer.Reloader, eff wizard.Effect) SessionView {
	st := w.State()
	v := SessionView{
		ID:         id,
		State:      st,
		Quote:      w.Quote(),
		Status:     w.Status(),
		Vehicles:   s.fleetFor(r)(st.Offer.EffectiveOffer),
		FocusField: eff.FocusField,
	}
	if err := r.LastError(); err != nil {
		v.FleetError = err.Error()
	}
	return v
}

// do loads a session, makes sure its fleet is current, runs fn and saves
// the resulting state. The state is saved even when fn fails, since a
// refused action may still have moved the wizard or set its error banner.
func (s *SessionService) do(ctx context.Context, id string, fn func(w *wizard.Wizard) (wizard.Effect, error)) (SessionView, error) {
	unlock := s.lock(id)
	defer unlock()

	st, err := s.Store.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			s.forget(id)
		}
		return SessionView{}, err
	}
	r := s.reloader(id)
	r.Request(st.Offer.EffectiveOffer)
	s.waitReload(ctx, r)

	w := s.wizardFor(id, st, r)
	if w.ExpireSubmit(2 * s.submitTimeout()) {
		utils.LogEvent(utils.RequestIDFrom(ctx), "wizard", "submit_expired", "session="+id)
	}
	eff, fnErr := fn(w)
	s.waitReload(ctx, r)

	if err := s.Store.Save(ctx, id, w.State()); err != nil {
		return SessionView{}, domain.InternalError{Msg: "could not save session", Err: err}
	}
	return s.view(id, w, r, eff), fnErr
}

func dispatch(a wizard.Action) func(w *wizard.Wizard) (wizard.Effect, error) {
	return func(w *wizard.Wizard) (wizard.Effect, error) {
		_, eff := w.Dispatch(a)
		return eff, nil
	}
}

// Create starts a new session at step 1.
func (s *SessionService) Create(ctx context.Context) (SessionView, error) {
	id := uuid.NewString()
	if err := s.Store.Save(ctx, id, wizard.NewState()); err != nil {
		return SessionView{}, domain.InternalError{Msg: "could not save session", Err: err}
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "wizard", "create_session", "session="+id)
	return s.Get(ctx, id)
}

func (s *SessionService) Get(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, func(*wizard.Wizard) (wizard.Effect, error) { return wizard.Effect{}, nil })
}

// UpdateDraft replaces the draft with the edited one.
func (s *SessionService) UpdateDraft(ctx context.Context, id string, d models.BookingDraft) (SessionView, error) {
	return s.do(ctx, id, dispatch(wizard.UpdateDraft{Edit: func(dst *models.BookingDraft) { *dst = d }}))
}

// PatchDraft merges a JSON object into the current draft. Keys absent from
// the patch keep their values.
func (s *SessionService) PatchDraft(ctx context.Context, id string, patch []byte) (SessionView, error) {
	return s.do(ctx, id, func(w *wizard.Wizard) (wizard.Effect, error) {
		d := w.State().Draft
		if err := json.Unmarshal(patch, &d); err != nil {
			return wizard.Effect{}, domain.ValidationError{Field: "draft", Code: "invalid_draft", Msg: "draft patch is not valid JSON", Err: err}
		}
		_, eff := w.Dispatch(wizard.UpdateDraft{Edit: func(dst *models.BookingDraft) { *dst = d }})
		return eff, nil
	})
}

func (s *SessionService) SetManualOffer(ctx context.Context, id string, o *models.Offer) (SessionView, error) {
	if o != nil && !o.Valid() {
		return SessionView{}, domain.ValidationError{Field: "offer", Code: "invalid_offer", Msg: "unknown offer"}
	}
	return s.do(ctx, id, dispatch(wizard.SetManualOffer{Offer: o}))
}

func (s *SessionService) Next(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, dispatch(wizard.Next{}))
}

func (s *SessionService) Back(ctx context.Context, id string) (SessionView, error) {
	return s.do(ctx, id, dispatch(wizard.Back{}))
}

func (s *SessionService) Jump(ctx context.Context, id string, step wizard.Step) (SessionView, error) {
	return s.do(ctx, id, dispatch(wizard.JumpTo{Step: step}))
}

// Submit sends the booking of a session on the summary step. The submitting
// flag is persisted before the call so a concurrent submit is refused while
// other actions stay possible. The outcome is recorded even when ctx ends
// while the booking is in flight.
func (s *SessionService) Submit(ctx context.Context, id string) (SessionView, models.BookingConfirmation, error) {
	rid := utils.RequestIDFrom(ctx)
	var req models.BookingRequest
	v, err := s.do(ctx, id, func(w *wizard.Wizard) (wizard.Effect, error) {
		var err error
		req, err = w.BeginSubmit()
		return wizard.Effect{}, err
	})
	if err != nil {
		return v, models.BookingConfirmation{}, err
	}

	sctx, cancel := s.detached(ctx)
	conf, subErr := s.Submitter.Submit(sctx, req)
	cancel()

	rctx, cancel := s.detached(ctx)
	defer cancel()
	if subErr != nil {
		utils.LogFailure(rid, "wizard", "submit", subErr)
		v, err = s.do(rctx, id, func(w *wizard.Wizard) (wizard.Effect, error) {
			w.FailSubmit(subErr)
			return wizard.Effect{}, nil
		})
		if err != nil {
			return SessionView{}, models.BookingConfirmation{}, err
		}
		if !domain.IsSubmission(subErr) {
			subErr = domain.SubmissionError{Err: subErr}
		}
		return v, models.BookingConfirmation{}, subErr
	}

	v, err = s.do(rctx, id, func(w *wizard.Wizard) (wizard.Effect, error) {
		w.CompleteSubmit(conf)
		return wizard.Effect{}, nil
	})
	if err != nil {
		return SessionView{}, conf, err
	}
	utils.LogEvent(rid, "wizard", "submit", "session="+id+" ref="+conf.Reference)
	return v, conf, nil
}

// Delete drops a session and its reloader.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	err := s.Store.Delete(ctx, id)
	unlock()
	s.forget(id)
	return err
}

// InvalidateFleet drops cached fleets so the next load reads the source.
func (s *SessionService) InvalidateFleet(offers ...models.Offer) {
	s.Fleet.Invalidate(offers...)
}
