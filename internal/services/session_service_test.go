package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/utils"
	"wakacjecypr/internal/wizard"
)

type recordingSubmitter struct {
	mu      sync.Mutex
	reqs    []models.BookingRequest
	err     error
	entered chan struct{}
	release chan struct{}
}

func (r *recordingSubmitter) Submit(_ context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	err := r.err
	r.mu.Unlock()
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	return models.BookingConfirmation{Reference: "WC-S1"}, nil
}

func newSessionFixture(sub wizard.Submitter) *SessionService {
	fleet := repositories.NewCachedFleetSource(staticFleet{}, 0)
	return NewSessionService(repositories.NewMemorySessionStore(time.Hour), fleet, sub)
}

func toSummary(t *testing.T, svc *SessionService, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.UpdateDraft(ctx, id, bookableDraft()); err != nil {
		t.Fatalf("update: %v", err)
	}
	for i := 0; i < 3; i++ {
		v, err := svc.Next(ctx, id)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if v.State.Error != nil {
			t.Fatalf("step %d error %+v", v.State.CurrentStep, v.State.Error)
		}
	}
}

func TestSessionServiceFlow(t *testing.T) {
	sub := &recordingSubmitter{}
	svc := newSessionFixture(sub)
	defer svc.Close()
	ctx := context.Background()

	v, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.State.CurrentStep != wizard.StepRoute || v.Status.Code != wizard.CodeStatusRoute {
		t.Fatalf("unexpected initial view %+v", v)
	}
	if len(v.Vehicles) == 0 {
		t.Fatalf("default fleet should be loaded")
	}

	toSummary(t, svc, v.ID)
	got, err := svc.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State.CurrentStep != wizard.StepSummary || got.Quote.TotalPrice != bookableTotal {
		t.Fatalf("unexpected summary view: step %d total %d", got.State.CurrentStep, got.Quote.TotalPrice)
	}

	done, conf, err := svc.Submit(ctx, v.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if conf.Reference != "WC-S1" || len(sub.reqs) != 1 || sub.reqs[0].SessionID != v.ID {
		t.Fatalf("unexpected submission %+v %+v", conf, sub.reqs)
	}
	if done.State.CurrentStep != wizard.StepRoute || done.State.MaxUnlockedStep != wizard.StepRoute {
		t.Fatalf("wizard not reset: %+v", done.State)
	}
	if done.Status.Code != wizard.CodeStatusBookingSubmitted {
		t.Fatalf("status = %q", done.Status.Code)
	}
}

func TestSessionServiceNextFailureIsNotAnError(t *testing.T) {
	svc := newSessionFixture(&recordingSubmitter{})
	defer svc.Close()
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	v, err := svc.Next(ctx, v.ID)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if v.State.CurrentStep != wizard.StepRoute || v.State.Error == nil || v.FocusField != "outbound.origin" {
		t.Fatalf("expected origin error on step 1, got %+v", v)
	}

	again, _ := svc.Get(ctx, v.ID)
	if again.State.Error == nil {
		t.Fatalf("error banner must be persisted")
	}
}

func TestSessionServiceOfferSwitchReloadsFleet(t *testing.T) {
	svc := newSessionFixture(&recordingSubmitter{})
	defer svc.Close()
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	d := bookableDraft()
	d.Outbound = models.Leg{Origin: "paphos-airport", Destination: "coral-bay", Date: "2025-06-01", Time: "10:00"}
	d.Rental.VehicleID = "pfo-yaris"
	v, err := svc.UpdateDraft(ctx, v.ID, d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.State.Offer.EffectiveOffer != models.OfferRegional {
		t.Fatalf("offer = %s", v.State.Offer.EffectiveOffer)
	}
	if len(v.Vehicles) == 0 || v.Vehicles[0].ID[:4] != "pfo-" {
		t.Fatalf("regional fleet not loaded: %+v", v.Vehicles)
	}
	if !v.Quote.IsBookable || v.Quote.Offer != models.OfferRegional {
		t.Fatalf("quote should use the regional fleet: %+v", v.Quote)
	}

	manual := models.OfferDefault
	v, err = svc.SetManualOffer(ctx, v.ID, &manual)
	if err != nil {
		t.Fatalf("set manual: %v", err)
	}
	if v.State.Offer.EffectiveOffer != models.OfferDefault || v.Vehicles[0].ID[:4] != "lca-" {
		t.Fatalf("manual default not applied: %+v", v.State.Offer)
	}

	bad := models.Offer("mars")
	if _, err := svc.SetManualOffer(ctx, v.ID, &bad); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSessionServiceSubmitFailureKeepsDraft(t *testing.T) {
	sub := &recordingSubmitter{err: domain.SubmissionError{Status: 502, Msg: "upstream"}}
	svc := newSessionFixture(sub)
	defer svc.Close()
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	toSummary(t, svc, v.ID)

	failed, _, err := svc.Submit(ctx, v.ID)
	if !domain.IsSubmission(err) {
		t.Fatalf("expected submission error, got %v", err)
	}
	if failed.State.CurrentStep != wizard.StepSummary || failed.State.Submitting || failed.State.Draft.Contact.Phone == "" {
		t.Fatalf("draft must be kept on summary: %+v", failed.State)
	}
	if failed.State.Error == nil || failed.State.Error.Code != wizard.CodeSubmissionFailed {
		t.Fatalf("error = %+v", failed.State.Error)
	}
}

func TestSessionServiceConcurrentSubmitConflicts(t *testing.T) {
	sub := &recordingSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	svc := newSessionFixture(sub)
	defer svc.Close()
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	toSummary(t, svc, v.ID)

	errc := make(chan error, 1)
	go func() {
		_, _, err := svc.Submit(ctx, v.ID)
		errc <- err
	}()
	<-sub.entered

	if _, _, err := svc.Submit(ctx, v.ID); !domain.IsConflict(err) {
		t.Fatalf("second submit must conflict, got %v", err)
	}
	if got, err := svc.Get(ctx, v.ID); err != nil || !got.State.Submitting || got.Status.Code != wizard.CodeStatusSubmitting {
		t.Fatalf("submitting flag must be visible to readers: %v %+v", err, got.State)
	}

	close(sub.release)
	if err := <-errc; err != nil {
		t.Fatalf("first submit: %v", err)
	}
}

// ctxStore refuses calls once their context is done, as a networked store does.
type ctxStore struct {
	repositories.SessionStore
}

func (s ctxStore) Get(ctx context.Context, id string) (wizard.State, error) {
	if err := ctx.Err(); err != nil {
		return wizard.State{}, err
	}
	return s.SessionStore.Get(ctx, id)
}

func (s ctxStore) Save(ctx context.Context, id string, st wizard.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.SessionStore.Save(ctx, id, st)
}

// cancellingSubmitter cancels the caller's request context mid-flight.
type cancellingSubmitter struct {
	cancel context.CancelFunc
	err    error
	ctxErr error
	rid    string
}

func (c *cancellingSubmitter) Submit(ctx context.Context, _ models.BookingRequest) (models.BookingConfirmation, error) {
	c.cancel()
	c.ctxErr = ctx.Err()
	c.rid = utils.RequestIDFrom(ctx)
	if c.err != nil {
		return models.BookingConfirmation{}, c.err
	}
	return models.BookingConfirmation{Reference: "WC-C1"}, nil
}

func TestSessionServiceSubmitSurvivesCancelledRequest(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantStep wizard.Step
	}{
		{"confirmed", nil, wizard.StepRoute},
		{"refused", domain.SubmissionError{Status: 502, Msg: "upstream"}, wizard.StepSummary},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := &cancellingSubmitter{err: tc.err}
			store := ctxStore{repositories.NewMemorySessionStore(time.Hour)}
			svc := NewSessionService(store, repositories.NewCachedFleetSource(staticFleet{}, 0), sub)
			defer svc.Close()

			v, err := svc.Create(context.Background())
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			toSummary(t, svc, v.ID)

			ctx, cancel := context.WithCancel(utils.WithRequestID(context.Background(), "rid-9"))
			defer cancel()
			sub.cancel = cancel
			_, conf, err := svc.Submit(ctx, v.ID)
			if tc.err == nil && (err != nil || conf.Reference != "WC-C1") {
				t.Fatalf("submit: %v %+v", err, conf)
			}
			if tc.err != nil && !domain.IsSubmission(err) {
				t.Fatalf("expected submission error, got %v", err)
			}
			if sub.ctxErr != nil || sub.rid != "rid-9" {
				t.Fatalf("submitter ctx err=%v rid=%q", sub.ctxErr, sub.rid)
			}

			st, err := store.Get(context.Background(), v.ID)
			if err != nil {
				t.Fatalf("stored state: %v", err)
			}
			if st.Submitting || st.CurrentStep != tc.wantStep {
				t.Fatalf("outcome not recorded: submitting=%v step=%d", st.Submitting, st.CurrentStep)
			}
			if tc.err == nil && st.LastReference != "WC-C1" {
				t.Fatalf("reference not recorded: %+v", st)
			}
			if tc.err != nil {
				sub.err = nil
				sub.cancel = func() {}
				if _, _, err := svc.Submit(context.Background(), v.ID); err != nil {
					t.Fatalf("retry: %v", err)
				}
			}
		})
	}
}

func TestSessionServiceClearsAbandonedSubmit(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	store := repositories.NewMemorySessionStore(time.Hour)
	svc := NewSessionService(store, repositories.NewCachedFleetSource(staticFleet{}, 0), &recordingSubmitter{})
	defer svc.Close()
	svc.Now = func() time.Time { return now }
	svc.SubmitTimeout = 10 * time.Second
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	toSummary(t, svc, v.ID)
	st, err := store.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	st.Submitting = true
	st.SubmittingSince = now
	if err := store.Save(ctx, v.ID, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, _, err := svc.Submit(ctx, v.ID); !domain.IsConflict(err) {
		t.Fatalf("a recent submission must still block, got %v", err)
	}

	now = now.Add(21 * time.Second)
	got, err := svc.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State.Submitting || got.State.Error == nil || got.State.Error.Code != wizard.CodeSubmissionFailed {
		t.Fatalf("abandoned flag not cleared: %+v", got.State)
	}
	if _, conf, err := svc.Submit(ctx, v.ID); err != nil || conf.Reference != "WC-S1" {
		t.Fatalf("submit after recovery: %v %+v", err, conf)
	}
}

func TestSessionServiceUnknownSession(t *testing.T) {
	svc := newSessionFixture(&recordingSubmitter{})
	defer svc.Close()
	if _, err := svc.Get(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	v, _ := svc.Create(context.Background())
	if err := svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), v.ID); !domain.IsNotFound(err) {
		t.Fatalf("deleted session must be gone, got %v", err)
	}
}

func TestSessionServicePatchDraftMerges(t *testing.T) {
	svc := newSessionFixture(&recordingSubmitter{})
	defer svc.Close()
	ctx := context.Background()

	v, _ := svc.Create(ctx)
	if _, err := svc.UpdateDraft(ctx, v.ID, bookableDraft()); err != nil {
		t.Fatalf("update: %v", err)
	}
	v, err := svc.PatchDraft(ctx, v.ID, []byte(`{"extras":{"bags":4},"contact":{"email":"anna@example.com"}}`))
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	d := v.State.Draft
	if d.Extras.Bags != 4 || d.Extras.Adults != 2 || d.Contact.Email != "anna@example.com" || d.Contact.Phone == "" {
		t.Fatalf("patch did not merge: %+v", d)
	}

	if _, err := svc.PatchDraft(ctx, v.ID, []byte(`{"extras":`)); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
