package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymtracker/gym-api/internal/auth"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/events"
	"gymtracker/gym-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	store := newMemStore()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour, "gym-api")
	require.NoError(t, err)

	users := memUsers{store}
	plans := memPlans{store}
	sessions := memSessions{store}
	memberships := memMemberships{store}
	reviews := memReviews{store}

	return &testServices{
		store:       store,
		auth:        NewAuthService(users, tokens, nil, events.Noop{}, nil, testLog),
		users:       NewUserService(users, events.Noop{}, nil, testLog),
		sessions:    NewSessionService(sessions, users, nil, testLog),
		plans:       NewWorkoutPlanService(plans, users, testLog),
		exercises:   NewExerciseService(memExercises{store}, plans),
		memberships: NewMembershipService(memberships, nil, testLog),
		reviews:     NewReviewService(reviews, users, plans),
		dashboard:   NewDashboardService(users, sessions, memberships, reviews, nil, time.Minute),
	}
}

func callerOf(u *domain.User) Caller {
	return Caller{UserID: u.ID, Role: u.Role}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWorkoutSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	trainer := svc.store.addUser("tom", domain.RoleTrainer)
	member := svc.store.addUser("mia", domain.RoleMember)

	plan, err := svc.plans.Create(ctx, callerOf(trainer), NewWorkoutPlan{
		Name: "Strength A",
		Exercises: []ExerciseSpec{
			{Name: "Squat", Sets: 5, Reps: 5},
			{Name: "Bench", Sets: 5, Reps: 5, RestTime: intPtr(0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Exercises, 2)
	assert.Equal(t, "Squat", plan.Exercises[0].Name)
	assert.Equal(t, "Bench", plan.Exercises[1].Name)
	assert.Equal(t, domain.DefaultRestTime, plan.Exercises[0].RestTime)
	assert.Equal(t, 0, plan.Exercises[1].RestTime)
	assert.Equal(t, domain.DefaultDurationWeeks, plan.DurationWeeks)
	assert.Equal(t, trainer.ID, plan.TrainerID)

	session, err := svc.sessions.Create(ctx, callerOf(trainer), NewSession{
		MemberID:      member.ID,
		WorkoutPlanID: &plan.ID,
		Date:          mustDate(t, "2026-03-02"),
		StartTime:     "09:00",
		EndTime:       "10:00",
	})
	require.NoError(t, err)
	require.NotNil(t, session.TrainerID)
	assert.Equal(t, trainer.ID, *session.TrainerID)
	assert.Equal(t, domain.SessionScheduled, session.Status)

	done, err := svc.sessions.Complete(ctx, callerOf(member), session.ID, []int64{plan.Exercises[0].ID})
	require.NoError(t, err)

	fetched, err := svc.sessions.Get(ctx, callerOf(member), done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, fetched.Status)
	assert.Equal(t, 50, fetched.CompletionRate)
}

func TestSessionService_CompleteOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	trainer := svc.store.addUser("tom", domain.RoleTrainer)
	otherTrainer := svc.store.addUser("tia", domain.RoleTrainer)
	member := svc.store.addUser("mia", domain.RoleMember)
	stranger := svc.store.addUser("max", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)

	session, err := svc.sessions.Create(ctx, callerOf(trainer), NewSession{MemberID: member.ID, Date: mustDate(t, "2026-03-02")})
	require.NoError(t, err)

	_, err = svc.sessions.Complete(ctx, callerOf(stranger), session.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.sessions.Complete(ctx, callerOf(otherTrainer), session.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	completed, err := svc.sessions.Complete(ctx, callerOf(admin), session.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, completed.CompletionRate)
	assert.Empty(t, completed.CompletedExercises)
}

func TestSessionService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	trainer := svc.store.addUser("tom", domain.RoleTrainer)
	member := svc.store.addUser("mia", domain.RoleMember)

	session, err := svc.sessions.Create(ctx, callerOf(trainer), NewSession{MemberID: member.ID, Date: mustDate(t, "2026-03-02")})
	require.NoError(t, err)

	missed := domain.SessionMissed
	updated, err := svc.sessions.Update(ctx, callerOf(trainer), session.ID, domain.SessionPatch{Status: &missed})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionMissed, updated.Status)

	scheduled := domain.SessionScheduled
	_, err = svc.sessions.Update(ctx, callerOf(trainer), session.ID, domain.SessionPatch{Status: &scheduled})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.sessions.Complete(ctx, callerOf(member), session.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.sessions.Update(ctx, callerOf(trainer), session.ID, domain.SessionPatch{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestSessionService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	trainer := svc.store.addUser("tom", domain.RoleTrainer)
	member := svc.store.addUser("mia", domain.RoleMember)
	date := mustDate(t, "2026-03-02")

	tests := []struct {
		name string
		in   NewSession
		want error
	}{
		{"missing member", NewSession{Date: date}, ErrValidation},
		{"missing date", NewSession{MemberID: member.ID}, ErrValidation},
		{"unknown member", NewSession{MemberID: 999, Date: date}, ErrUserNotFound},
		{"member is a trainer", NewSession{MemberID: trainer.ID, Date: date}, ErrValidation},
		{"bad clock", NewSession{MemberID: member.ID, Date: date, StartTime: "9am"}, ErrValidation},
		{"end before start", NewSession{MemberID: member.ID, Date: date, StartTime: "10:00", EndTime: "09:00"}, ErrValidation},
		{"unknown plan", NewSession{MemberID: member.ID, Date: date, WorkoutPlanID: int64Ptr(404)}, ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.sessions.Create(ctx, callerOf(trainer), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSessionService_ListScopesByRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	tia := svc.store.addUser("tia", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	max := svc.store.addUser("max", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)
	date := mustDate(t, "2026-03-02")

	for _, pair := range []struct{ trainer, member *domain.User }{{tom, mia}, {tom, max}, {tia, mia}} {
		_, err := svc.sessions.Create(ctx, callerOf(pair.trainer), NewSession{MemberID: pair.member.ID, Date: date})
		require.NoError(t, err)
	}

	mine, err := svc.sessions.List(ctx, callerOf(max), repository.SessionFilter{MemberID: &mia.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, max.ID, mine[0].MemberID)

	tomSessions, err := svc.sessions.List(ctx, callerOf(tom), repository.SessionFilter{TrainerID: &tia.ID})
	require.NoError(t, err)
	assert.Len(t, tomSessions, 2)

	all, err := svc.sessions.List(ctx, callerOf(admin), repository.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.sessions.Get(ctx, callerOf(max), mine[0].ID+100)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.sessions.Get(ctx, callerOf(tia), mine[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.sessions.MemberStats(ctx, callerOf(max), mia.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	stats, err := svc.sessions.MemberStats(ctx, callerOf(mia), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
}

func TestSessionService_MemberStatsScopedToTrainer(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	tia := svc.store.addUser("tia", domain.RoleTrainer)
	ted := svc.store.addUser("ted", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)
	date := mustDate(t, "2026-03-02")

	first, err := svc.sessions.Create(ctx, callerOf(tom), NewSession{MemberID: mia.ID, Date: date})
	require.NoError(t, err)
	_, err = svc.sessions.Create(ctx, callerOf(tom), NewSession{MemberID: mia.ID, Date: date})
	require.NoError(t, err)
	_, err = svc.sessions.Create(ctx, callerOf(tia), NewSession{MemberID: mia.ID, Date: date})
	require.NoError(t, err)
	_, err = svc.sessions.Complete(ctx, callerOf(tom), first.ID, nil)
	require.NoError(t, err)

	stats, err := svc.sessions.MemberStats(ctx, callerOf(ted), mia.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStats{}, stats)

	listed, err := svc.sessions.List(ctx, callerOf(ted), repository.SessionFilter{MemberID: &mia.ID})
	require.NoError(t, err)
	assert.Empty(t, listed)

	stats, err = svc.sessions.MemberStats(ctx, callerOf(tom), mia.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStats{Total: 2, Completed: 1, Scheduled: 1}, stats)

	stats, err = svc.sessions.MemberStats(ctx, callerOf(tia), 0)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStats{Total: 1, Scheduled: 1}, stats)

	stats, err = svc.sessions.MemberStats(ctx, callerOf(admin), mia.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
}

func TestSessionService_AdminReassignRequiresTrainer(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	tia := svc.store.addUser("tia", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)
	session, err := svc.sessions.Create(ctx, callerOf(tom), NewSession{MemberID: mia.ID, Date: mustDate(t, "2026-03-02")})
	require.NoError(t, err)

	_, err = svc.sessions.Update(ctx, callerOf(admin), session.ID, domain.SessionPatch{TrainerID: &mia.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.sessions.Update(ctx, callerOf(admin), session.ID, domain.SessionPatch{TrainerID: int64Ptr(999)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := svc.sessions.Update(ctx, callerOf(admin), session.ID, domain.SessionPatch{TrainerID: &tia.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.TrainerID)
	assert.Equal(t, tia.ID, *updated.TrainerID)
}

func TestSessionService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	trainer := svc.store.addUser("tom", domain.RoleTrainer)
	member := svc.store.addUser("mia", domain.RoleMember)
	session, err := svc.sessions.Create(ctx, callerOf(trainer), NewSession{MemberID: member.ID, Date: mustDate(t, "2026-03-02")})
	require.NoError(t, err)

	require.NoError(t, svc.sessions.Delete(ctx, callerOf(trainer), session.ID))
	err = svc.sessions.Delete(ctx, callerOf(trainer), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkoutPlanService_Ownership(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	tia := svc.store.addUser("tia", domain.RoleTrainer)
	admin := svc.store.addUser("ada", domain.RoleAdmin)

	plan, err := svc.plans.Create(ctx, callerOf(tom), NewWorkoutPlan{Name: "Cardio", DurationWeeks: 6})
	require.NoError(t, err)

	_, err = svc.plans.Update(ctx, callerOf(tia), plan.ID, domain.WorkoutPlanPatch{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.exercises.Create(ctx, callerOf(tia), plan.ID, ExerciseSpec{Name: "Row", Sets: 3, Reps: 10})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.plans.Update(ctx, callerOf(admin), plan.ID, domain.WorkoutPlanPatch{Description: strPtr("Zone 2")})
	require.NoError(t, err)
	assert.Equal(t, "Cardio", updated.Name)
	assert.Equal(t, "Zone 2", updated.Description)
	assert.Equal(t, 6, updated.DurationWeeks)

	_, err = svc.plans.Create(ctx, callerOf(admin), NewWorkoutPlan{Name: "No trainer"})
	assert.ErrorIs(t, err, ErrValidation)
	onBehalf, err := svc.plans.Create(ctx, callerOf(admin), NewWorkoutPlan{Name: "Delegated", TrainerID: tia.ID})
	require.NoError(t, err)
	assert.Equal(t, tia.ID, onBehalf.TrainerID)

	require.NoError(t, svc.plans.Delete(ctx, callerOf(tom), plan.ID))
	_, err = svc.plans.Get(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrWorkoutPlanNotFound)
}

func TestWorkoutPlanService_InvalidExercise(t *testing.T) {
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)

	_, err := svc.plans.Create(context.Background(), callerOf(tom), NewWorkoutPlan{
		Name:      "Broken",
		Exercises: []ExerciseSpec{{Name: "Squat", Sets: 3, Reps: 5}, {Name: "", Sets: 3, Reps: 5}},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "exercises[1]")
	assert.Empty(t, svc.store.plans)
	assert.Empty(t, svc.store.exercises)
}

func TestExerciseService_SparseUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	plan, err := svc.plans.Create(ctx, callerOf(tom), NewWorkoutPlan{
		Name:      "Legs",
		Exercises: []ExerciseSpec{{Name: "Lunge", Sets: 3, Reps: 12, RestTime: intPtr(90), Notes: "quads"}},
	})
	require.NoError(t, err)
	before := plan.Exercises[0]

	after, err := svc.exercises.Update(ctx, callerOf(tom), before.ID, domain.ExercisePatch{RestTime: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, after.RestTime)
	before.RestTime = 0
	assert.Equal(t, before, *after)

	_, err = svc.exercises.Update(ctx, callerOf(tom), 999, domain.ExercisePatch{Sets: intPtr(4)})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestMembershipService_ActiveAndScope(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	mia := svc.store.addUser("mia", domain.RoleMember)
	max := svc.store.addUser("max", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)

	none, err := svc.memberships.Active(ctx, callerOf(mia), 0)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, end := range []string{"2026-06-30", "2026-12-31", "2026-09-30"} {
		_, err := svc.memberships.Create(ctx, NewMembership{
			UserID: mia.ID, Name: "Monthly", StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, end), Price: 30,
		})
		require.NoError(t, err)
	}

	active, err := svc.memberships.Active(ctx, callerOf(mia), 0)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "2026-12-31", active.EndDate.String())
	assert.Equal(t, domain.MembershipActive, active.Status)

	_, err = svc.memberships.Active(ctx, callerOf(max), mia.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.memberships.Get(ctx, callerOf(max), active.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	list, err := svc.memberships.ListByUser(ctx, callerOf(admin), mia.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	stats, err := svc.memberships.Revenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90.0, stats.TotalRevenue)
}

func TestMembershipService_DateRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	mia := svc.store.addUser("mia", domain.RoleMember)

	_, err := svc.memberships.Create(ctx, NewMembership{
		UserID: mia.ID, Name: "Yearly", StartDate: mustDate(t, "2026-05-01"), EndDate: mustDate(t, "2026-04-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	m, err := svc.memberships.Create(ctx, NewMembership{
		UserID: mia.ID, Name: "Yearly", StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-12-31"), Price: 300,
	})
	require.NoError(t, err)

	early := mustDate(t, "2025-12-01")
	_, err = svc.memberships.Update(ctx, m.ID, domain.MembershipPatch{EndDate: &early})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.memberships.Create(ctx, NewMembership{
		UserID: 404, Name: "Ghost", StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-02-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestReviewService_AuthorOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	max := svc.store.addUser("max", domain.RoleMember)
	admin := svc.store.addUser("ada", domain.RoleAdmin)

	rating, err := svc.reviews.TrainerRating(ctx, tom.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrainerRating{}, rating)

	review, err := svc.reviews.Create(ctx, callerOf(mia), NewReview{TrainerID: &tom.ID, Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, mia.ID, review.ClientID)

	_, err = svc.reviews.Update(ctx, callerOf(max), review.ID, domain.ReviewPatch{Rating: intPtr(1)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.reviews.Delete(ctx, callerOf(max), review.ID), ErrForbidden)

	updated, err := svc.reviews.Update(ctx, callerOf(mia), review.ID, domain.ReviewPatch{Rating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "solid", updated.Comment)

	_, err = svc.reviews.Update(ctx, callerOf(mia), review.ID, domain.ReviewPatch{Rating: intPtr(6)})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.reviews.Delete(ctx, callerOf(admin), review.ID))
	assert.ErrorIs(t, svc.reviews.Delete(ctx, callerOf(admin), review.ID), ErrReviewNotFound)
}

func TestReviewService_TrainerFromPlan(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	plan, err := svc.plans.Create(ctx, callerOf(tom), NewWorkoutPlan{Name: "Mobility"})
	require.NoError(t, err)

	review, err := svc.reviews.Create(ctx, callerOf(mia), NewReview{WorkoutPlanID: &plan.ID, Rating: 3})
	require.NoError(t, err)
	require.NotNil(t, review.TrainerID)
	assert.Equal(t, tom.ID, *review.TrainerID)

	_, err = svc.reviews.Create(ctx, callerOf(mia), NewReview{TrainerID: &mia.ID, Rating: 3})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.reviews.Create(ctx, callerOf(mia), NewReview{Rating: 3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	tom := svc.store.addUser("tom", domain.RoleTrainer)
	mia := svc.store.addUser("mia", domain.RoleMember)
	max := svc.store.addUser("max", domain.RoleMember)
	svc.store.addUser("ada", domain.RoleAdmin)

	var ids []int64
	for _, m := range []*domain.User{mia, mia, max} {
		s, err := svc.sessions.Create(ctx, callerOf(tom), NewSession{MemberID: m.ID, Date: mustDate(t, "2026-03-02")})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err := svc.sessions.Complete(ctx, callerOf(mia), ids[0], nil)
	require.NoError(t, err)
	_, err = svc.reviews.Create(ctx, callerOf(mia), NewReview{TrainerID: &tom.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.reviews.Create(ctx, callerOf(max), NewReview{TrainerID: &tom.ID, Rating: 4})
	require.NoError(t, err)

	trainerView, err := svc.dashboard.Trainer(ctx, callerOf(tom))
	require.NoError(t, err)
	assert.Equal(t, domain.TrainerDashboard{
		TotalSessions: 3, CompletedSessions: 1, ScheduledSessions: 2,
		ActiveMembers: 2, Reviews: 2, Rating: 4.5,
	}, *trainerView)

	memberView, err := svc.dashboard.Member(ctx, callerOf(mia))
	require.NoError(t, err)
	assert.Equal(t, mia.ID, memberView.Member.ID)
	assert.Nil(t, memberView.Membership)
	assert.Equal(t, int64(2), memberView.Sessions.Total)

	adminView, err := svc.dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), adminView.Users.TotalUsers)
	assert.Equal(t, int64(3), adminView.Sessions.Total)
	assert.Equal(t, 33.33, adminView.Sessions.CompletionRate)
}

func TestDashboardService_AdminCacheDroppedOnWrites(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := newMemCache()
	users := memUsers{store}
	sessions := memSessions{store}
	memberships := memMemberships{store}
	tokens, err := auth.NewTokenManager("test-secret", time.Hour, "gym-api")
	require.NoError(t, err)

	authSvc := NewAuthService(users, tokens, nil, nil, c, testLog)
	userSvc := NewUserService(users, nil, c, testLog)
	sessionSvc := NewSessionService(sessions, users, c, testLog)
	membershipSvc := NewMembershipService(memberships, c, testLog)
	dashboard := NewDashboardService(users, sessions, memberships, memReviews{store}, c, time.Hour)

	tom := store.addUser("tom", domain.RoleTrainer)
	mia := store.addUser("mia", domain.RoleMember)

	view, err := dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Users.TotalUsers)

	// Writes that bypass the services are not seen until the entry is dropped.
	store.addUser("ada", domain.RoleAdmin)
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Users.TotalUsers)

	_, err = sessionSvc.Create(ctx, callerOf(tom), NewSession{MemberID: mia.ID, Date: mustDate(t, "2026-03-02")})
	require.NoError(t, err)
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.Users.TotalUsers)
	assert.Equal(t, int64(1), view.Sessions.Total)

	membership, err := membershipSvc.Create(ctx, NewMembership{
		UserID: mia.ID, Name: "Monthly", Price: 50,
		StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-31"),
	})
	require.NoError(t, err)
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, view.Revenue.TotalRevenue)

	require.NoError(t, membershipSvc.Delete(ctx, membership.ID))
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Zero(t, view.Revenue.TotalRevenue)

	_, _, err = authSvc.Register(ctx, NewAccount{Name: "Sam", Email: "sam@example.com", Password: "secret123"})
	require.NoError(t, err)
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), view.Users.TotalUsers)

	require.NoError(t, userSvc.Delete(ctx, mia.ID))
	view, err = dashboard.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.Users.TotalUsers)
	assert.Equal(t, 5, c.drops)
}

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0.0, completionPercent(0, 0))
	assert.Equal(t, 66.67, completionPercent(2, 3))
	assert.Equal(t, 100.0, completionPercent(4, 4))
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrEmailTaken, ErrValidation))
	assert.True(t, errors.Is(ErrReviewNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrReviewNotFound, ErrValidation))
	assert.True(t, errors.Is(forbidden("nope"), ErrForbidden))
	assert.Equal(t, "nope", forbidden("nope").Error())
	assert.True(t, errors.Is(mapRepoErr(repository.ErrInvalidValue, ErrUserNotFound), ErrValidation))
}
