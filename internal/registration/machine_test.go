package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"mathclass-bot/internal/storage"
	"mathclass-bot/internal/validation"
)

type allowAll struct{}

func (allowAll) Allow(int64) bool { return true }

type denyAll struct{}

func (denyAll) Allow(int64) bool { return false }

// brokenStore fails every write, for storage-unavailable paths.
type brokenStore struct {
	err error
}

func (b *brokenStore) Get(context.Context, int64) (*storage.StudentRecord, error) {
	return nil, b.err
}
func (b *brokenStore) Put(context.Context, *storage.StudentRecord) error { return b.err }
func (b *brokenStore) UpdateField(context.Context, int64, validation.Field, string) error {
	return b.err
}

func newTestMachine(t *testing.T) (*Machine, *storage.FileStorage) {
	t.Helper()
	store, err := storage.NewFileStorage(t.TempDir(), time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	return NewMachine(store, allowAll{}, zap.NewNop()), store
}

var happyInputs = []string{
	"علی", "حاتمی", "یازدهم", "ریاضی", "خراسان رضوی", "مشهد", "09121234567",
}

func runHappyPath(t *testing.T, m *Machine, c *Context) {
	t.Helper()
	for i, input := range happyInputs {
		res := m.Advance(context.Background(), c, input)
		if res.Failure != nil {
			t.Fatalf("step %d rejected %q: %v", i, input, res.Failure)
		}
	}
	if c.Step != StepConfirmation {
		t.Fatalf("after all inputs step = %s, want %s", c.Step, StepConfirmation)
	}
}

func TestFullRegistration(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()
	c := NewContext(1001)

	runHappyPath(t, m, c)

	res := m.Advance(ctx, c, InputConfirm)
	if !res.Completed {
		t.Fatalf("confirmation did not complete: %+v", res)
	}
	if c.Step != StepCompleted {
		t.Errorf("step = %s, want %s", c.Step, StepCompleted)
	}

	record, err := store.Get(ctx, 1001)
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if record.FirstName != "علی" || record.Grade != "یازدهم" ||
		record.Province != "خراسان رضوی" || record.City != "مشهد" {
		t.Errorf("stored record does not match inputs: %+v", record)
	}
	if record.Phone != "+989121234567" {
		t.Errorf("phone not normalized: %q", record.Phone)
	}
	if record.PaymentStatus != storage.PaymentPending {
		t.Errorf("payment status = %q, want pending", record.PaymentStatus)
	}
}

func TestInvalidInputKeepsStepAndStore(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()
	c := NewContext(1002)

	res := m.Advance(ctx, c, "Ali") // latin letters rejected
	if res.Failure == nil {
		t.Fatal("invalid name accepted")
	}
	if c.Step != StepFirstName {
		t.Errorf("step moved on invalid input: %s", c.Step)
	}

	// Unknown grade later in the flow behaves the same.
	for _, input := range []string{"علی", "حاتمی"} {
		m.Advance(ctx, c, input)
	}
	res = m.Advance(ctx, c, "yazdahom")
	if res.Failure == nil || res.Failure.Code != validation.CodeUnknownEnumMember {
		t.Errorf("unknown grade failure = %+v, want unknown_enum_member", res.Failure)
	}
	if c.Step != StepGrade {
		t.Errorf("step moved on unknown grade: %s", c.Step)
	}

	if _, err := store.Get(ctx, 1002); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("partial flow reached storage: %v", err)
	}
}

func TestDeclineRestartsWithoutWrite(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()
	c := NewContext(1003)

	runHappyPath(t, m, c)

	res := m.Advance(ctx, c, InputRestart)
	if !res.Restarted {
		t.Fatalf("decline did not restart: %+v", res)
	}
	if c.Step != StepFirstName {
		t.Errorf("step = %s, want %s", c.Step, StepFirstName)
	}
	if len(c.Fields) != 0 {
		t.Errorf("collected fields not cleared: %v", c.Fields)
	}
	if _, err := store.Get(ctx, 1003); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("declined flow reached storage: %v", err)
	}
}

func TestThrottledInputIgnored(t *testing.T) {
	store, err := storage.NewFileStorage(t.TempDir(), time.Minute, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine(store, denyAll{}, zap.NewNop())
	c := NewContext(1004)

	res := m.Advance(context.Background(), c, "علی")
	if !res.Throttled {
		t.Fatal("gate not consulted")
	}
	if c.Step != StepFirstName || len(c.Fields) != 0 {
		t.Error("throttled input mutated context")
	}
}

func TestCommitFailureKeepsConfirmation(t *testing.T) {
	m := NewMachine(&brokenStore{err: errors.New("disk gone")}, allowAll{}, zap.NewNop())
	c := NewContext(1005)

	runHappyPath(t, m, c)

	res := m.Advance(context.Background(), c, InputConfirm)
	if res.CommitErr == nil {
		t.Fatal("storage failure not surfaced")
	}
	if res.Completed {
		t.Error("failed commit reported as completed")
	}
	if c.Step != StepConfirmation {
		t.Errorf("step = %s, want to stay at confirmation for retry", c.Step)
	}
}

func registerUser(t *testing.T, m *Machine, userID int64) *Context {
	t.Helper()
	c := NewContext(userID)
	runHappyPath(t, m, c)
	if res := m.Advance(context.Background(), c, InputConfirm); !res.Completed {
		t.Fatalf("registration did not complete: %+v", res)
	}
	return c
}

func TestEditSingleField(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()
	c := registerUser(t, m, 2001)

	before, err := store.Get(ctx, 2001)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.BeginEdit(ctx, c, validation.FieldGrade); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	res := m.Advance(ctx, c, "دوازدهم")
	if res.EditedField != validation.FieldGrade {
		t.Fatalf("edit not committed: %+v", res)
	}
	if c.Step != StepCompleted {
		t.Errorf("step = %s, want %s after edit", c.Step, StepCompleted)
	}

	after, err := store.Get(ctx, 2001)
	if err != nil {
		t.Fatal(err)
	}
	if after.Grade != "دوازدهم" {
		t.Errorf("grade not updated: %q", after.Grade)
	}
	if after.FirstName != before.FirstName || after.Phone != before.Phone ||
		after.City != before.City || after.PaymentStatus != before.PaymentStatus {
		t.Error("edit touched unrelated fields")
	}
}

func TestEditInvalidValueRepromptsSameField(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx := context.Background()
	c := registerUser(t, m, 2002)

	if err := m.BeginEdit(ctx, c, validation.FieldPhone); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	res := m.Advance(ctx, c, "not a phone")
	if res.Failure == nil {
		t.Fatal("invalid phone accepted during edit")
	}
	if c.Step != StepEditValue || c.EditField != validation.FieldPhone {
		t.Errorf("edit state lost on invalid input: step=%s field=%s", c.Step, c.EditField)
	}
}

func TestProvinceEditForcesCityRecollection(t *testing.T) {
	m, store := newTestMachine(t)
	ctx := context.Background()
	c := registerUser(t, m, 2003) // registered in خراسان رضوی / مشهد

	if err := m.BeginEdit(ctx, c, validation.FieldProvince); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	res := m.Advance(ctx, c, "گیلان")
	if res.Failure != nil {
		t.Fatalf("valid province rejected: %v", res.Failure)
	}
	if c.Step != StepEditValue || c.EditField != validation.FieldCity {
		t.Fatalf("flow did not chain into city re-collection: step=%s field=%s", c.Step, c.EditField)
	}

	// Nothing may be committed while the pair is inconsistent.
	mid, err := store.Get(ctx, 2003)
	if err != nil {
		t.Fatal(err)
	}
	if mid.Province != "خراسان رضوی" || mid.City != "مشهد" {
		t.Errorf("record changed before city re-collected: %+v", mid)
	}

	// An old-province city is rejected against the new province.
	res = m.Advance(ctx, c, "مشهد")
	if res.Failure == nil || res.Failure.Code != validation.CodeInconsistentDependency {
		t.Fatalf("city of old province accepted: %+v", res.Failure)
	}

	res = m.Advance(ctx, c, "رشت")
	if res.EditedField == "" {
		t.Fatalf("city re-collection did not commit: %+v", res)
	}

	after, err := store.Get(ctx, 2003)
	if err != nil {
		t.Fatal(err)
	}
	if after.Province != "گیلان" || after.City != "رشت" {
		t.Errorf("province/city pair not committed together: %+v", after)
	}
}
