package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ismyyear/lockin/internal/aggregate"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetBytes(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) {
	b, _ := json.Marshal(v)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
}

func (c *memCache) InvalidatePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
}

type fixture struct {
	db       *sqlx.DB
	users    repository.UserRepository
	checkins repository.CheckinRepository
	goals    repository.GoalRepository
	cache    *memCache
}

func newFixture(t *testing.T) *fixture {
	db := testutil.SetupTestDB(t)
	return &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		checkins: repository.NewCheckinRepository(db),
		goals:    repository.NewGoalRepository(db),
		cache:    newMemCache(),
	}
}

func fixedClock(date string) func() time.Time {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return d.Add(15 * time.Hour) }
}

func TestUserCreateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewMatcherService(f.users, nil), false)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", " Alice@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.True(t, first.IsNewUser)

	second, err := svc.Create(ctx, "u1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	_, err = svc.Create(ctx, "", "x@example.com")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, "u2", "nope")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterIntent(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewMatcherService(f.users, nil), false)
	svc.now = fixedClock("2025-03-14")
	ctx := context.Background()

	testutil.CreateUser(t, f.users, "alice")
	testutil.CreateUser(t, f.users, "bob")

	reg, err := svc.RegisterIntent(ctx, "alice", "fitness")
	require.NoError(t, err)
	assert.Nil(t, reg.Partner)
	assert.False(t, reg.User.IsNewUser)
	assert.Equal(t, "2025-03", *reg.User.JoinedMonth)

	reg, err = svc.RegisterIntent(ctx, "bob", "fitness")
	require.NoError(t, err)
	require.NotNil(t, reg.Partner)
	assert.Equal(t, "alice", reg.Partner.ID)
}

func TestRegisterIntentValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewMatcherService(f.users, nil), false)
	ctx := context.Background()

	_, err := svc.RegisterIntent(ctx, "alice", "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RegisterIntent(ctx, "ghost", "fitness")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRegisterIntentSurvivesMatchFailure(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.users, "alice")
	testutil.CreateUser(t, f.users, "bob")
	require.NoError(t, f.users.UpdateFocus(context.Background(), "bob", "fitness", "2025-01"))

	store := &fakeStore{
		users: map[string]*model.User{
			"alice": user("alice", "fitness"),
			"bob":   user("bob", "fitness"),
		},
		linkErr: repository.ErrPartnerUnavailable,
	}
	svc := NewUserService(f.users, NewMatcherService(store, nil), false)

	reg, err := svc.RegisterIntent(context.Background(), "alice", "fitness")
	require.NoError(t, err)
	assert.Nil(t, reg.Partner)
}

func TestRegisterIntentMonthEndGate(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.users, "alice")
	svc := NewUserService(f.users, NewMatcherService(f.users, nil), true)

	svc.now = fixedClock("2025-03-14")
	_, err := svc.RegisterIntent(context.Background(), "alice", "fitness")
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	svc.now = fixedClock("2025-03-31")
	_, err = svc.RegisterIntent(context.Background(), "alice", "fitness")
	assert.NoError(t, err)
}

func TestIsLastDayOfMonth(t *testing.T) {
	assert.True(t, IsLastDayOfMonth(fixedClock("2024-02-29")()))
	assert.False(t, IsLastDayOfMonth(fixedClock("2025-02-27")()))
	assert.True(t, IsLastDayOfMonth(fixedClock("2025-12-31")()))
}

func TestCheckinSave(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckinService(f.checkins, f.users, f.cache)
	svc.now = fixedClock("2025-01-03")
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")

	f.cache.SetJSON(ctx, LeaderboardCachePrefix+"weekly:2025-01-03", []int{}, 0)

	for _, d := range []string{"2025-01-01", "2025-01-02"} {
		_, err := svc.Save(ctx, CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(70), Date: d})
		require.NoError(t, err)
	}
	saved, err := svc.Save(ctx, CheckinInput{
		UserID:         "alice",
		AchievedPoints: testutil.Ptr(40),
		CompletedGoals: model.CompletedGoals{"Read": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-03", saved.Date)
	assert.True(t, saved.CompletedGoals["Read"])

	assert.Contains(t, f.cache.invalidated, LeaderboardCachePrefix)
	_, cached := f.cache.GetBytes(ctx, LeaderboardCachePrefix+"weekly:2025-01-03")
	assert.False(t, cached)

	u, err := f.users.ByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, u.CurrentStreak)
	assert.Equal(t, 3, u.LongestStreak)

	// Overwrite today with zero points
	_, err = svc.Save(ctx, CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(0)})
	require.NoError(t, err)
	u, err = f.users.ByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, u.CurrentStreak)
	assert.Equal(t, 2, u.LongestStreak)

	all, err := svc.List(ctx, "alice", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCheckinSaveValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckinService(f.checkins, f.users, f.cache)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")

	tests := []struct {
		name string
		in   CheckinInput
	}{
		{"missing user", CheckinInput{AchievedPoints: testutil.Ptr(10)}},
		{"missing points", CheckinInput{UserID: "alice"}},
		{"points too high", CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(101)}},
		{"negative points", CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(-5)}},
		{"bad date", CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(10), Date: "01/02/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.Save(ctx, CheckinInput{UserID: "ghost", AchievedPoints: testutil.Ptr(10)})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCheckinStats(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckinService(f.checkins, f.users, f.cache)
	svc.now = fixedClock("2025-01-03")
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")

	empty, err := svc.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, aggregate.Summary{}, *empty)

	_, err = svc.Save(ctx, CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(50), Date: "2025-01-02"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(100), Date: "2025-01-03"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCheckins)
	assert.Equal(t, 75, stats.AverageCompletion)
	assert.Equal(t, 100, *stats.LatestPoints)
	assert.Equal(t, 2, stats.CurrentStreak)

	_, err = svc.Stats(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRecomputeAllStreaks(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckinService(f.checkins, f.users, f.cache)
	svc.now = fixedClock("2025-01-02")
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")
	testutil.CreateUser(t, f.users, "bob")

	// Written straight to the store so nothing has refreshed the stored streaks yet
	_, err := f.checkins.Upsert(ctx, &model.Checkin{ID: "c1", UserID: "bob", Date: "2025-01-01", AchievedPoints: 60})
	require.NoError(t, err)
	_, err = f.checkins.Upsert(ctx, &model.Checkin{ID: "c2", UserID: "bob", Date: "2025-01-02", AchievedPoints: 60})
	require.NoError(t, err)

	n, err := svc.RecomputeAllStreaks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bob, err := f.users.ByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, bob.CurrentStreak)
}

func TestLeaderboardWeekly(t *testing.T) {
	f := newFixture(t)
	checkins := NewCheckinService(f.checkins, f.users, f.cache)
	svc := NewLeaderboardService(f.checkins, f.users, f.cache, aggregate.DefaultOptions(), time.Minute)
	ctx := context.Background()

	testutil.CreateUser(t, f.users, "alice")
	testutil.CreateUser(t, f.users, "bob")

	save := func(id, date string, points int) {
		_, err := checkins.Save(ctx, CheckinInput{UserID: id, AchievedPoints: testutil.Ptr(points), Date: date})
		require.NoError(t, err)
	}
	save("alice", "2025-01-06", 80)
	save("alice", "2025-01-07", 100)
	save("bob", "2025-01-07", 95)
	save("bob", "2024-12-20", 100) // outside the window

	end := fixedClock("2025-01-07")()
	entries, err := svc.Weekly(ctx, end)
	require.NoError(t, err)
	assert.Equal(t, []aggregate.Entry{
		{UserID: "bob", DisplayLabel: "bob***", Score: 95},
		{UserID: "alice", DisplayLabel: "ali***", Score: 90},
	}, entries)

	_, cached := f.cache.GetBytes(ctx, weeklyCacheKey(end))
	assert.True(t, cached)

	// A cached answer is served until a check-in invalidates it
	_, err = f.db.Exec(`DELETE FROM checkins`)
	require.NoError(t, err)
	again, err := svc.Weekly(ctx, end)
	require.NoError(t, err)
	assert.Equal(t, entries, again)

	f.cache.InvalidatePrefix(ctx, LeaderboardCachePrefix)
	fresh, err := svc.Weekly(ctx, end)
	require.NoError(t, err)
	assert.NotNil(t, fresh)
	assert.Empty(t, fresh)
}

func TestGoals(t *testing.T) {
	f := newFixture(t)
	svc := NewGoalService(f.goals, f.users)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")

	list, err := svc.Goals(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list.Goals)

	saved, err := svc.Save(ctx, "alice", []model.GoalItem{
		{Name: "Read", Target: 20, Unit: model.GoalUnitMinutesPerDay},
		{Name: " ", Target: 3, Unit: model.GoalUnitDaysPerWeek},
	})
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	list, err = svc.Goals(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved, list.Goals)

	_, err = svc.Save(ctx, "alice", []model.GoalItem{{Name: "Run", Target: 5, Unit: "km"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Goals(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = svc.Save(ctx, "ghost", nil)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestProfileAndPublicGoals(t *testing.T) {
	f := newFixture(t)
	svc := NewProfileService(f.users)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")
	testutil.CreateUser(t, f.users, "bob")
	require.NoError(t, f.users.UpdateFocus(ctx, "alice", "fitness_health", "2025-01"))

	u, err := svc.UpdateProfile(ctx, "alice", "  Run a marathon  ", true)
	require.NoError(t, err)
	assert.Equal(t, "Run a marathon", *u.Goal2026)
	assert.True(t, u.GoalPublic)

	_, err = svc.UpdateProfile(ctx, "bob", "secret goal", false)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, "alice", strings.Repeat("x", 201), true)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, "ghost", "goal", true)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	goals, err := svc.PublicGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "alice", goals[0].DisplayName)
	assert.Equal(t, "Fitness Health", goals[0].FocusLabel)
	assert.Equal(t, "Run a marathon", goals[0].Goal2026)
}

func TestFocusLabel(t *testing.T) {
	assert.Equal(t, "Fitness Health", FocusLabel("fitness_health"))
	assert.Equal(t, "Mental Health", FocusLabel("mental-health"))
	assert.Equal(t, "", FocusLabel(""))
}

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Save(_ context.Context, key, _ string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStorage) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://storage.example/" + key + "?sig=abc", nil
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	goals := NewGoalService(f.goals, f.users)
	checkins := NewCheckinService(f.checkins, f.users, f.cache)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice")

	_, err := checkins.Save(ctx, CheckinInput{UserID: "alice", AchievedPoints: testutil.Ptr(60), Date: "2025-01-01"})
	require.NoError(t, err)

	streamOnly := NewExportService(f.users, goals, f.checkins, nil)
	assert.False(t, streamOnly.UploadsEnabled())

	export, err := streamOnly.Build(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", export.User.ID)
	assert.Len(t, export.Checkins, 1)
	assert.NotNil(t, export.Goals)

	_, err = streamOnly.Upload(ctx, export)
	assert.ErrorIs(t, err, ErrExportStorageDisabled)

	store := &memStorage{objects: map[string][]byte{}}
	uploader := NewExportService(f.users, goals, f.checkins, store)
	url, err := uploader.Upload(ctx, export)
	require.NoError(t, err)
	assert.Contains(t, url, "exports/alice/")
	assert.Len(t, store.objects, 1)

	_, err = uploader.Build(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
