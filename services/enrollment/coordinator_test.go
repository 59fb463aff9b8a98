package enrollment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courseledger/apperrors"
	"courseledger/clients/catalog"
	"courseledger/models"
	"courseledger/repositories"
	"courseledger/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countUpdate struct {
	CourseID string
	Count    int
}

// fakeCatalog behaves like the catalog service: pushes overwrite the counter.
type fakeCatalog struct {
	mu        sync.Mutex
	courses   map[string]catalog.CourseSnapshot
	getErr    error
	updateErr error
	updates   []countUpdate
	afterRead func()
}

func newFakeCatalog(courses ...catalog.CourseSnapshot) *fakeCatalog {
	f := &fakeCatalog{courses: map[string]catalog.CourseSnapshot{}}
	for _, c := range courses {
		f.courses[c.ID] = c
	}
	return f
}

func (f *fakeCatalog) GetCourse(_ context.Context, id string) (*catalog.CourseSnapshot, error) {
	f.mu.Lock()
	course, ok := f.courses[id]
	err := f.getErr
	hook := f.afterRead
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("Course", id)
	}
	return &course, nil
}

func (f *fakeCatalog) UpdateEnrolledCount(_ context.Context, id string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	course := f.courses[id]
	course.Enrolled = count
	f.courses[id] = course
	f.updates = append(f.updates, countUpdate{CourseID: id, Count: count})
	return nil
}

func (f *fakeCatalog) enrolled(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[id].Enrolled
}

func (f *fakeCatalog) pushed() []countUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]countUpdate(nil), f.updates...)
}

type fixture struct {
	coord       *Coordinator
	catalog     *fakeCatalog
	enrollments *repositories.EnrollmentRepository
}

func newFixture(t *testing.T, courses ...catalog.CourseSnapshot) *fixture {
	t.Helper()
	db := testutil.OpenSQLite(t)
	students := repositories.NewStudentRepository(db)
	for i, id := range []string{"S1", "S2"} {
		_, err := students.Create(context.Background(), &models.Student{
			StudentID: id,
			Email:     id + "@example.edu",
			Grade:     i + 1,
		})
		require.NoError(t, err)
	}

	enrollments := repositories.NewEnrollmentRepository(db)
	cat := newFakeCatalog(courses...)
	return &fixture{
		coord:       NewCoordinator(students, enrollments, cat, zap.NewNop(), time.Second),
		catalog:     cat,
		enrollments: enrollments,
	}
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	all, err := f.enrollments.List(context.Background(), "")
	require.NoError(t, err)
	return len(all)
}

func TestEnrollSucceedsAndPushesCount(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 2, Enrolled: 0})

	got, err := f.coord.Enroll(context.Background(), "C1", "S1")
	require.NoError(t, err)
	f.coord.Wait()

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, models.EnrollmentActive, got.Status)
	assert.WithinDuration(t, time.Now(), got.EnrolledAt, time.Minute)
	assert.Equal(t, []countUpdate{{CourseID: "C1", Count: 1}}, f.catalog.pushed())

	stored, err := f.enrollments.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, "S1", stored.StudentID)
}

func TestEnrollRejections(t *testing.T) {
	tests := []struct {
		name      string
		courseID  string
		studentID string
		check     func(t *testing.T, err error)
	}{
		{"missing ids", "", "S1", func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrMissingIDs) }},
		{"unknown student", "C1", "S404", func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err)) }},
		{"unknown course", "C404", "S1", func(t *testing.T, err error) {
			var nf *apperrors.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "Course", nf.Resource)
		}},
		{"course full", "FULL", "S1", func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCourseFull) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t,
				catalog.CourseSnapshot{ID: "C1", Capacity: 5},
				catalog.CourseSnapshot{ID: "FULL", Capacity: 3, Enrolled: 3},
			)

			_, err := f.coord.Enroll(context.Background(), tt.courseID, tt.studentID)
			tt.check(t, err)
			f.coord.Wait()

			assert.Zero(t, f.count(t), "no enrollment may be written")
			assert.Empty(t, f.catalog.pushed())
		})
	}
}

func TestEnrollCatalogUnavailableWritesNothing(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	f.catalog.getErr = apperrors.Unavailable("Catalog service is not available", errors.New("connection refused"))

	_, err := f.coord.Enroll(context.Background(), "C1", "S1")
	assert.True(t, apperrors.IsUnavailable(err))
	assert.Zero(t, f.count(t))
}

func TestEnrollRejectsDuplicateActive(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})

	_, err := f.coord.Enroll(context.Background(), "C1", "S1")
	require.NoError(t, err)
	_, err = f.coord.Enroll(context.Background(), "C1", "S1")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	f.coord.Wait()

	assert.Equal(t, 1, f.count(t))
}

func TestEnrollPushFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	f.catalog.updateErr = errors.New("catalog down")

	got, err := f.coord.Enroll(context.Background(), "C1", "S1")
	require.NoError(t, err)
	f.coord.Wait()

	stored, err := f.enrollments.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
	assert.Equal(t, 0, f.catalog.enrolled("C1"), "catalog counter is left stale")
}

func TestEnrollPushSurvivesRequestCancellation(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.coord.Enroll(ctx, "C1", "S1")
	require.NoError(t, err)
	cancel()
	f.coord.Wait()

	assert.Equal(t, 1, f.catalog.enrolled("C1"))
}

func TestDrop(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	ctx := context.Background()

	got, err := f.coord.Enroll(ctx, "C1", "S1")
	require.NoError(t, err)
	f.coord.Wait()

	require.NoError(t, f.coord.Drop(ctx, got.ID))
	f.coord.Wait()

	stored, err := f.enrollments.FindByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentDropped, stored.Status)
	assert.Equal(t, 0, f.catalog.enrolled("C1"))

	t.Run("already dropped", func(t *testing.T) {
		pushesBefore := len(f.catalog.pushed())

		assert.ErrorIs(t, f.coord.Drop(ctx, got.ID), ErrNotActive)
		f.coord.Wait()

		again, err := f.enrollments.FindByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentDropped, again.Status)
		require.NotNil(t, again.DroppedAt)
		assert.True(t, stored.DroppedAt.Equal(*again.DroppedAt))
		assert.Len(t, f.catalog.pushed(), pushesBefore)
		assert.Equal(t, 0, f.catalog.enrolled("C1"))
	})
	t.Run("unknown enrollment", func(t *testing.T) {
		err := f.coord.Drop(ctx, "E404")
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, 1, f.count(t))
	})
}

func TestDropNeverGoesBelowZero(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	ctx := context.Background()

	got, err := f.coord.Enroll(ctx, "C1", "S1")
	require.NoError(t, err)
	f.coord.Wait()
	require.NoError(t, f.catalog.UpdateEnrolledCount(ctx, "C1", 0))

	require.NoError(t, f.coord.Drop(ctx, got.ID))
	f.coord.Wait()
	assert.Equal(t, 0, f.catalog.enrolled("C1"))
}

func TestDropKeepsLocalTransitionWhenCatalogFails(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})
	ctx := context.Background()

	got, err := f.coord.Enroll(ctx, "C1", "S1")
	require.NoError(t, err)
	f.coord.Wait()

	f.catalog.mu.Lock()
	f.catalog.getErr = apperrors.Unavailable("Catalog service is not available", nil)
	f.catalog.mu.Unlock()

	require.NoError(t, f.coord.Drop(ctx, got.ID))
	f.coord.Wait()

	stored, err := f.enrollments.FindByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentDropped, stored.Status)
	assert.Equal(t, 1, f.catalog.enrolled("C1"))
}

func TestEnrollDropCyclesKeepOneActive(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 1})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := f.coord.Enroll(ctx, "C1", "S1")
		require.NoError(t, err, "cycle %d", i)
		f.coord.Wait()

		_, err = f.coord.Enroll(ctx, "C1", "S1")
		require.Error(t, err)

		active, err := f.enrollments.List(ctx, models.EnrollmentActive)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		require.NoError(t, f.coord.Drop(ctx, got.ID))
		f.coord.Wait()
	}

	history, err := f.enrollments.ListByStudent(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, history, 3)
	for _, e := range history {
		assert.Equal(t, models.EnrollmentDropped, e.Status)
	}
}

// Both callers read enrolled=0 before either push lands, so both pass the
// capacity check. This over-subscription is expected behaviour.
func TestConcurrentEnrollForLastSeatCanOversubscribe(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 1, Enrolled: 0})

	var reads sync.WaitGroup
	reads.Add(2)
	f.catalog.afterRead = func() {
		reads.Done()
		reads.Wait()
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, student := range []string{"S1", "S2"} {
		wg.Add(1)
		go func(i int, student string) {
			defer wg.Done()
			_, errs[i] = f.coord.Enroll(context.Background(), "C1", student)
		}(i, student)
	}
	wg.Wait()
	f.coord.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])

	active, err := f.enrollments.List(context.Background(), models.EnrollmentActive)
	require.NoError(t, err)
	assert.Len(t, active, 2, "both enrollments were committed")
	assert.Equal(t, 1, f.catalog.enrolled("C1"), "both pushed 0+1, so the counter lags the ledger")
}

// gatedEnrollments holds every caller after the duplicate pre-check until
// all of them have passed it.
type gatedEnrollments struct {
	EnrollmentStore
	checked *sync.WaitGroup
}

func (g gatedEnrollments) ExistsActive(ctx context.Context, courseID, studentID string) (bool, error) {
	active, err := g.EnrollmentStore.ExistsActive(ctx, courseID, studentID)
	g.checked.Done()
	g.checked.Wait()
	return active, err
}

func TestConcurrentEnrollSamePairKeepsOneActive(t *testing.T) {
	f := newFixture(t, catalog.CourseSnapshot{ID: "C1", Capacity: 5})

	var checked sync.WaitGroup
	checked.Add(2)
	f.coord.enrollments = gatedEnrollments{EnrollmentStore: f.enrollments, checked: &checked}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.coord.Enroll(context.Background(), "C1", "S1")
		}(i)
	}
	wg.Wait()
	f.coord.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrAlreadyEnrolled)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactly one enroll wins the pair")

	active, err := f.enrollments.List(context.Background(), models.EnrollmentActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Len(t, f.catalog.pushed(), 1)
}
