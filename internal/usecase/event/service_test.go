package event

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domainevent "qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
	"qmsevents/internal/infrastructure/persistence/store/model"
	storerepo "qmsevents/internal/infrastructure/persistence/store/repository"
	storeuow "qmsevents/internal/infrastructure/persistence/store/uow"
)

func setupServiceWithDB(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "qms.sqlite") + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := storerepo.NewEventRepository(db)
	uow := storeuow.NewUnitOfWork(db)
	return NewService(repo, uow), db
}

func strPtr(s string) *string { return &s }

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Event{}).Count(&n).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func TestCreateTitleOnlyAppliesDefaults(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	before := time.Now().UTC()
	created, err := svc.Create(ctx, CreateEventInput{Title: strPtr("Annual GMP audit")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.Description != "" {
		t.Fatalf("Create() description = %q, want empty", created.Description)
	}
	if created.Status == nil || *created.Status != domainevent.DefaultStatus {
		t.Fatalf("Create() status = %v, want %s", created.Status, domainevent.DefaultStatus)
	}
	if created.CreatedAt.IsZero() || created.CreatedAt.Before(before) {
		t.Fatalf("Create() date = %s, want >= %s", created.CreatedAt, before)
	}
	if created.EventDate != nil || created.DueDate != nil || created.Severity != nil {
		t.Fatalf("Create() optional fields should be null: %+v", created)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, db := setupServiceWithDB(t)
	ctx := context.Background()

	for _, input := range []CreateEventInput{
		{Description: strPtr("no title")},
		{Title: strPtr("   ")},
	} {
		_, err := svc.Create(ctx, input)
		if !errors.Is(err, domainevent.ErrTitleRequired) {
			t.Fatalf("Create() error = %v, want ErrTitleRequired", err)
		}
		if errs.KindOf(err) != errs.KindValidation {
			t.Fatalf("Create() kind = %v, want validation", errs.KindOf(err))
		}
	}
	if n := countRows(t, db); n != 0 {
		t.Fatalf("events count = %d, want 0", n)
	}
}

func TestCreateNormalizesDates(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEventInput{
		Title:     strPtr("Deviation"),
		EventDate: "2024-03-01T10:00:00",
		DueDate:   "not-a-date",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.EventDate == nil || *created.EventDate != domainevent.NewDate(2024, time.March, 1) {
		t.Fatalf("Create() event_date = %v, want 2024-03-01", created.EventDate)
	}
	if created.DueDate != nil {
		t.Fatalf("Create() due_date = %v, want nil", created.DueDate)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEventInput{
		Title:             strPtr("CAPA-12"),
		Description:       strPtr("corrective action"),
		EventType:         strPtr("CAPA"),
		Status:            strPtr("In Progress"),
		ResponsiblePerson: strPtr("J. Doe"),
		DueDate:           "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != created.Title || *got.Status != "In Progress" || *got.ResponsiblePerson != "J. Doe" {
		t.Fatalf("Get() = %+v, want %+v", got, created)
	}
	if got.DueDate == nil || *got.DueDate != *created.DueDate || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("Get() dates = %v %s, want %v %s", got.DueDate, got.CreatedAt, created.DueDate, created.CreatedAt)
	}
}

func TestUpdateStatusOnly(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEventInput{
		Title:    strPtr("Internal audit"),
		Severity: strPtr("Medium"),
		Priority: strPtr("High"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, domainevent.Patch{Status: domainevent.Value("Closed")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if *updated.Status != "Closed" {
		t.Fatalf("Update() status = %q, want Closed", *updated.Status)
	}
	if *updated.Severity != "Medium" || *updated.Priority != "High" || updated.Title != created.Title {
		t.Fatalf("Update() changed other fields: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("Update() date = %s, want %s", updated.CreatedAt, created.CreatedAt)
	}
}

func TestUnknownIDIsNotFoundWithoutSideEffects(t *testing.T) {
	svc, db := setupServiceWithDB(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 7); !errors.Is(err, domainevent.ErrEventNotFound) {
		t.Fatalf("Get() error = %v, want ErrEventNotFound", err)
	}
	_, err := svc.Update(ctx, 7, domainevent.Patch{Status: domainevent.Value("Closed")})
	if !errors.Is(err, domainevent.ErrEventNotFound) {
		t.Fatalf("Update() error = %v, want ErrEventNotFound", err)
	}
	if errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("Update() kind = %v, want not_found", errs.KindOf(err))
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 0 || countRows(t, db) != 0 {
		t.Fatalf("List() len = %d, want 0", len(items))
	}
}

func TestUpdateRejectsNullTitle(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEventInput{Title: strPtr("keep me")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(ctx, created.ID, domainevent.Patch{Title: domainevent.Null[string]()})
	if !errors.Is(err, domainevent.ErrTitleNotNullable) {
		t.Fatalf("Update() error = %v, want ErrTitleNotNullable", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "keep me" {
		t.Fatalf("title = %q, want keep me", got.Title)
	}
}

func TestInvalidIDIsValidationError(t *testing.T) {
	svc, _ := setupServiceWithDB(t)

	_, err := svc.Get(context.Background(), 0)
	if !errors.Is(err, domainevent.ErrInvalidEventID) {
		t.Fatalf("Get(0) error = %v, want ErrInvalidEventID", err)
	}
}

func TestConcurrentUpdatesOnDistinctIDsAllSucceed(t *testing.T) {
	svc, _ := setupServiceWithDB(t)
	ctx := context.Background()

	const events = 32
	const updatesPerEvent = 8
	ids := make([]int64, 0, events)
	for i := 0; i < events; i++ {
		created, err := svc.Create(ctx, CreateEventInput{Title: strPtr(fmt.Sprintf("event %d", i))})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, created.ID)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, events*updatesPerEvent)
	for _, id := range ids {
		for j := 0; j < updatesPerEvent; j++ {
			wg.Add(1)
			go func(id int64, j int) {
				defer wg.Done()
				patch := domainevent.Patch{
					Status:   domainevent.Value("Closed"),
					Severity: domainevent.Value(fmt.Sprintf("S%d", j)),
				}
				if _, err := svc.Update(ctx, id, patch); err != nil {
					errCh <- err
				}
			}(id, j)
		}
	}
	wg.Wait()
	close(errCh)

	failed := 0
	var first error
	for err := range errCh {
		if first == nil {
			first = err
		}
		failed++
	}
	if failed > 0 {
		t.Fatalf("%d of %d concurrent updates failed; first: %v", failed, events*updatesPerEvent, first)
	}

	for _, id := range ids {
		got, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", id, err)
		}
		if got.Status == nil || *got.Status != "Closed" {
			t.Fatalf("event %d status = %v, want Closed", id, got.Status)
		}
	}
}
