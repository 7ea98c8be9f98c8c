package responses

import (
	"context"
	"errors"
	"testing"
	"time"

	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/requests"
)

// -------------------------
// Test doubles
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID   map[string]Response
	byPair map[string]string

	// forceDuplicateOnCreate simula perder la carrera: el pre-chequeo no vio
	// nada pero el insert choca con la constraint.
	forceDuplicateOnCreate bool

	completedDogID string
	completedAt    time.Time
}

func newTestRepoResponses() *testRepo {
	return &testRepo{
		byID:   map[string]Response{},
		byPair: map[string]string{},
	}
}

func pairKey(requestID, dogID string) string {
	return requestID + "|" + dogID
}

func (r *testRepo) Create(ctx context.Context, resp Response) error {
	if r.forceDuplicateOnCreate {
		return ErrDuplicatePair
	}
	key := pairKey(resp.RequestID, resp.DogID)
	if _, ok := r.byPair[key]; ok {
		return ErrDuplicatePair
	}
	r.byID[resp.ID] = resp
	r.byPair[key] = resp.ID
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Response, error) {
	resp, ok := r.byID[id]
	if !ok {
		return Response{}, errRepoNotFound
	}
	return resp, nil
}

func (r *testRepo) GetByRequestAndDog(ctx context.Context, requestID, dogID string) (Response, error) {
	id, ok := r.byPair[pairKey(requestID, dogID)]
	if !ok {
		return Response{}, errRepoNotFound
	}
	return r.byID[id], nil
}

func (r *testRepo) ListByRequest(ctx context.Context, requestID string) ([]Response, error) {
	out := make([]Response, 0)
	for _, resp := range r.byID {
		if resp.RequestID == requestID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Response, error) {
	out := make([]Response, 0)
	for _, resp := range r.byID {
		if resp.OwnerUserID == ownerUserID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *testRepo) Complete(ctx context.Context, responseID, dogID string, completedAt time.Time) error {
	resp, ok := r.byID[responseID]
	if !ok {
		return errRepoNotFound
	}
	if resp.Status != StatusAccepted {
		return ErrNotCompletable
	}
	resp.Status = StatusCompleted
	resp.UpdatedAt = completedAt
	r.byID[responseID] = resp
	r.completedDogID = dogID
	r.completedAt = completedAt
	return nil
}

type testRequests struct {
	byID map[string]requests.Request
}

func (r *testRequests) GetByID(ctx context.Context, id string) (requests.Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return requests.Request{}, errRepoNotFound
	}
	return req, nil
}

type testDogs struct {
	byID map[string]dogs.Dog
}

func (r *testDogs) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, errRepoNotFound
	}
	return d, nil
}

// -------------------------
// Fixture
// -------------------------

type fixture struct {
	repo *testRepo
	reqs *testRequests
	dogz *testDogs
	svc  *Service
	now  time.Time
}

func newFixture() *fixture {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	f := &fixture{
		repo: newTestRepoResponses(),
		reqs: &testRequests{byID: map[string]requests.Request{}},
		dogz: &testDogs{byID: map[string]dogs.Dog{}},
		now:  now,
	}
	f.svc = NewService(f.repo, f.reqs, f.dogz)
	f.svc.now = func() time.Time { return now }

	f.reqs.byID["req-1"] = requests.Request{
		ID:       "req-1",
		ClinicID: "clinic-1",
		VolumeML: 250,
		Urgency:  requests.UrgencyUrgent,
		NeededBy: now.Add(72 * time.Hour),
		Status:   requests.StatusOpen,
	}

	f.dogz.byID["dog-1"] = dogs.Dog{
		ID:          "dog-1",
		OwnerUserID: "owner-1",
		Name:        "Rocco",
		Sex:         dogs.SexMale,
		DateOfBirth: now.AddDate(0, 0, -365*3),
		WeightKg:    30,
		Active:      true,
	}

	return f
}

func acceptedInput() CreateInput {
	return CreateInput{DogID: "dog-1", Status: StatusAccepted, Message: "puede el jueves"}
}

// -------------------------
// Create
// -------------------------

func TestService_Create_Accepted(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", resp.Status)
	}
	if resp.RequestID != "req-1" || resp.DogID != "dog-1" || resp.OwnerUserID != "owner-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.CreatedAt != f.now || resp.UpdatedAt != f.now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_InvalidInitialStatus(t *testing.T) {
	f := newFixture()

	in := acceptedInput()
	in.Status = StatusCompleted
	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for COMPLETED initial status, got %v", err)
	}
}

func TestService_Create_RequestNotFound(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), "req-missing", "owner-1", acceptedInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Create_ClosedRequest(t *testing.T) {
	f := newFixture()

	req := f.reqs.byID["req-1"]
	req.Status = requests.StatusCancelled
	f.reqs.byID["req-1"] = req

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState for cancelled request, got %v", err)
	}
}

func TestService_Create_ExpiredRequest(t *testing.T) {
	f := newFixture()

	// sigue OPEN en storage pero el deadline ya pasó
	f.svc.now = func() time.Time { return f.now.Add(96 * time.Hour) }

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState for expired request, got %v", err)
	}
}

func TestService_Create_DogNotOwned(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), "req-1", "other-owner", acceptedInput()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Create_PreconditionOrder_StateBeforeOwnership(t *testing.T) {
	f := newFixture()

	// pedido cerrado Y perro ajeno: gana el primer fallo (estado)
	req := f.reqs.byID["req-1"]
	req.Status = requests.StatusFulfilled
	f.reqs.byID["req-1"] = req

	_, err := f.svc.Create(context.Background(), "req-1", "other-owner", acceptedInput())
	if !errors.Is(err, ErrBadState) {
		t.Fatalf("expected state error to win over ownership, got %v", err)
	}
}

func TestService_Create_IneligibleDog_Accepted(t *testing.T) {
	f := newFixture()

	d := f.dogz.byID["dog-1"]
	d.WeightKg = 20
	last := f.now.AddDate(0, 0, -30)
	d.LastDonationDate = &last
	f.dogz.byID["dog-1"] = d

	_, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput())
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}

	var eligErr *EligibilityError
	if !errors.As(err, &eligErr) {
		t.Fatalf("expected *EligibilityError, got %T", err)
	}
	if len(eligErr.Reasons) != 2 {
		t.Fatalf("expected 2 reasons (peso y descanso), got %v", eligErr.Reasons)
	}
}

func TestService_Create_Declined_SkipsEligibility(t *testing.T) {
	f := newFixture()

	d := f.dogz.byID["dog-1"]
	d.WeightKg = 10
	f.dogz.byID["dog-1"] = d

	in := acceptedInput()
	in.Status = StatusDeclined

	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", in)
	if err != nil {
		t.Fatalf("DECLINED should not run eligibility, got %v", err)
	}
	if resp.Status != StatusDeclined {
		t.Fatalf("expected DECLINED, got %s", resp.Status)
	}
}

func TestService_Create_Duplicate_PreCheck(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("expected ErrAlreadyResponded, got %v", err)
	}
}

func TestService_Create_Duplicate_RaceLoser(t *testing.T) {
	f := newFixture()

	// el pre-chequeo no ve nada pero el insert pierde contra la constraint
	f.repo.forceDuplicateOnCreate = true

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("expected ErrAlreadyResponded for race loser, got %v", err)
	}
}

// -------------------------
// Complete
// -------------------------

func TestService_Complete_Happy(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	completedAt := f.now.Add(24 * time.Hour)
	f.svc.now = func() time.Time { return completedAt }

	done, err := f.svc.Complete(context.Background(), resp.ID, "clinic-1")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", done.Status)
	}
	if f.repo.completedDogID != "dog-1" || !f.repo.completedAt.Equal(completedAt) {
		t.Fatalf("expected dog update in same unit of work, got dog=%s at=%v",
			f.repo.completedDogID, f.repo.completedAt)
	}
}

func TestService_Complete_WrongClinic(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := f.svc.Complete(context.Background(), resp.ID, "clinic-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Complete_DeclinedResponse(t *testing.T) {
	f := newFixture()

	in := acceptedInput()
	in.Status = StatusDeclined
	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := f.svc.Complete(context.Background(), resp.ID, "clinic-1"); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState completing DECLINED, got %v", err)
	}
}

func TestService_Complete_Twice(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), resp.ID, "clinic-1"); err != nil {
		t.Fatalf("first Complete error: %v", err)
	}

	if _, err := f.svc.Complete(context.Background(), resp.ID, "clinic-1"); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState on second complete, got %v", err)
	}
}

func TestService_Complete_NotFound(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Complete(context.Background(), "resp-missing", "clinic-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -------------------------
// Listados
// -------------------------

func TestService_ListByRequest_OnlyOwningClinic(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), "req-1", "owner-1", acceptedInput()); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	items, err := f.svc.ListByRequest(context.Background(), "req-1", "clinic-1")
	if err != nil {
		t.Fatalf("ListByRequest error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 response, got %d", len(items))
	}

	if _, err := f.svc.ListByRequest(context.Background(), "req-1", "clinic-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another clinic, got %v", err)
	}
}
