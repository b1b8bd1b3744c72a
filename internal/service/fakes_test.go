package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/logging"
	"gymtracker/gym-api/internal/repository"

	"github.com/stretchr/testify/mock"
)

var testLog = logging.Discard()

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	drops int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.drops++
	return nil
}

// memStore is an in-memory stand-in for the relational store shared by the fake repositories.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*domain.User
	plans       map[int64]*domain.WorkoutPlan
	exercises   map[int64]*domain.Exercise
	sessions    map[int64]*domain.Session
	memberships map[int64]*domain.Membership
	reviews     map[int64]*domain.Review
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*domain.User{},
		plans:       map[int64]*domain.WorkoutPlan{},
		exercises:   map[int64]*domain.Exercise{},
		sessions:    map[int64]*domain.Session{},
		memberships: map[int64]*domain.Membership{},
		reviews:     map[int64]*domain.Review{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(name string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{ID: s.id(), Name: name, Email: name + "@gym.io", Role: role, IsActive: true}
	s.users[u.ID] = u
	return u
}

// --- users ---

type memUsers struct{ *memStore }

func (r memUsers) FindAll(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, repository.ErrDuplicate
		}
	}
	c := *user
	c.ID = r.id()
	c.CreatedAt = time.Now()
	r.users[c.ID] = &c
	return c.ID, nil
}

func (r memUsers) Update(_ context.Context, id int64, p domain.UserPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if p.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *p.Email {
				return false, repository.ErrDuplicate
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return true, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id int64, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	return true, nil
}

func (r memUsers) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r memUsers) GetStats(context.Context) (domain.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s domain.UserStats
	for _, u := range r.users {
		s.TotalUsers++
		switch u.Role {
		case domain.RoleMember:
			s.TotalMembers++
		case domain.RoleTrainer:
			s.TotalTrainers++
		case domain.RoleAdmin:
			s.TotalAdmins++
		}
		if u.IsActive {
			s.ActiveUsers++
		}
	}
	return s, nil
}

// --- workout plans and exercises ---

type memPlans struct{ *memStore }

func (r memPlans) planExercises(planID int64) []domain.Exercise {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.WorkoutPlanID == planID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memPlans) FindAll(context.Context) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		c := *p
		c.ExerciseCount = int64(len(r.planExercises(p.ID)))
		out = append(out, c)
	}
	return out, nil
}

func (r memPlans) FindByID(_ context.Context, id int64) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	c.Exercises = r.planExercises(id)
	c.ExerciseCount = int64(len(c.Exercises))
	return &c, nil
}

func (r memPlans) FindByTrainer(_ context.Context, trainerID int64) ([]domain.WorkoutPlan, error) {
	all, _ := r.FindAll(context.Background())
	var out []domain.WorkoutPlan
	for _, p := range all {
		if p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPlans) CreateWithExercises(_ context.Context, plan *domain.WorkoutPlan, exercises []domain.Exercise) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[plan.TrainerID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	c := *plan
	c.ID = r.id()
	r.plans[c.ID] = &c
	for _, e := range exercises {
		e := e
		e.ID = r.id()
		e.WorkoutPlanID = c.ID
		r.exercises[e.ID] = &e
	}
	return c.ID, nil
}

func (r memPlans) Update(_ context.Context, id int64, p domain.WorkoutPlanPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return false, nil
	}
	if p.Name != nil {
		plan.Name = *p.Name
	}
	if p.Description != nil {
		plan.Description = *p.Description
	}
	if p.DurationWeeks != nil {
		plan.DurationWeeks = *p.DurationWeeks
	}
	return true, nil
}

func (r memPlans) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return false, nil
	}
	delete(r.plans, id)
	for eid, e := range r.exercises {
		if e.WorkoutPlanID == id {
			delete(r.exercises, eid)
		}
	}
	return true, nil
}

type memExercises struct{ *memStore }

func (r memExercises) FindAll(context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, e := range r.exercises {
		out = append(out, *e)
	}
	return out, nil
}

func (r memExercises) FindByID(_ context.Context, id int64) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r memExercises) FindByWorkoutPlan(_ context.Context, planID int64) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memPlans(r).planExercises(planID), nil
}

func (r memExercises) Create(_ context.Context, e *domain.Exercise) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[e.WorkoutPlanID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	c := *e
	c.ID = r.id()
	r.exercises[c.ID] = &c
	return c.ID, nil
}

func (r memExercises) Update(_ context.Context, id int64, p domain.ExercisePatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return false, nil
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Sets != nil {
		e.Sets = *p.Sets
	}
	if p.Reps != nil {
		e.Reps = *p.Reps
	}
	if p.RestTime != nil {
		e.RestTime = *p.RestTime
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	return true, nil
}

func (r memExercises) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return false, nil
	}
	delete(r.exercises, id)
	return true, nil
}

// --- sessions ---

type memSessions struct{ *memStore }

// decorate fills the computed fields the SQL repository derives with joins.
func (r memSessions) decorate(s domain.Session) domain.Session {
	if s.WorkoutPlanID != nil {
		exercises := memPlans(r).planExercises(*s.WorkoutPlanID)
		s.Exercises = exercises
		s.TotalExercises = int64(len(exercises))
		s.CompletedCount = domain.CountCompletedInPlan(s.CompletedExercises, exercises)
		s.CompletionRate = domain.CompletionRate(s.CompletedCount, s.TotalExercises)
	}
	return s
}

func (r memSessions) FindAll(_ context.Context, f repository.SessionFilter) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.sessions {
		if f.MemberID != nil && s.MemberID != *f.MemberID {
			continue
		}
		if f.TrainerID != nil && (s.TrainerID == nil || *s.TrainerID != *f.TrainerID) {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		out = append(out, r.decorate(*s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memSessions) FindByID(_ context.Context, id int64) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := r.decorate(*s)
	return &c, nil
}

func (r memSessions) FindMissed(context.Context) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	today := domain.NewDate(time.Now())
	var out []domain.Session
	for _, s := range r.sessions {
		if s.Status == domain.SessionScheduled && s.Date.Before(today.Time) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memSessions) Create(_ context.Context, s *domain.Session) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[s.MemberID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	if s.WorkoutPlanID != nil {
		if _, ok := r.plans[*s.WorkoutPlanID]; !ok {
			return 0, repository.ErrInvalidReference
		}
	}
	c := *s
	c.ID = r.id()
	if c.Status == "" {
		c.Status = domain.SessionScheduled
	}
	if c.CompletedExercises == nil {
		c.CompletedExercises = []int64{}
	}
	r.sessions[c.ID] = &c
	return c.ID, nil
}

func (r memSessions) Update(_ context.Context, id int64, p domain.SessionPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.TrainerID != nil {
		s.TrainerID = p.TrainerID
	}
	if p.WorkoutPlanID != nil {
		s.WorkoutPlanID = p.WorkoutPlanID
	}
	if p.CompletedExercises != nil {
		s.CompletedExercises = *p.CompletedExercises
	}
	return true, nil
}

func (r memSessions) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r memSessions) GetMemberStats(ctx context.Context, memberID int64) (domain.SessionStats, error) {
	all, err := r.FindAll(ctx, repository.SessionFilter{MemberID: &memberID})
	return domain.SummarizeSessions(all), err
}

func (r memSessions) GetStats(ctx context.Context) (domain.SessionStats, error) {
	all, err := r.FindAll(ctx, repository.SessionFilter{})
	return domain.SummarizeSessions(all), err
}

// --- memberships ---

type memMemberships struct{ *memStore }

func (r memMemberships) FindAll(context.Context) ([]domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Membership
	for _, m := range r.memberships {
		out = append(out, *m)
	}
	return out, nil
}

func (r memMemberships) FindByID(_ context.Context, id int64) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r memMemberships) FindByUser(_ context.Context, userID int64) ([]domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Membership
	for _, m := range r.memberships {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r memMemberships) GetActiveMembership(_ context.Context, userID int64) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *domain.Membership
	for _, m := range r.memberships {
		if m.UserID != userID || m.Status != domain.MembershipActive {
			continue
		}
		if best == nil || m.EndDate.After(best.EndDate.Time) {
			best = m
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	c := *best
	return &c, nil
}

func (r memMemberships) Create(_ context.Context, m *domain.Membership) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[m.UserID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	c := *m
	c.ID = r.id()
	r.memberships[c.ID] = &c
	return c.ID, nil
}

func (r memMemberships) Update(_ context.Context, id int64, p domain.MembershipPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok {
		return false, nil
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		m.EndDate = *p.EndDate
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	return true, nil
}

func (r memMemberships) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.memberships[id]; !ok {
		return false, nil
	}
	delete(r.memberships, id)
	return true, nil
}

func (r memMemberships) GetStats(context.Context) (domain.MembershipStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s domain.MembershipStats
	for _, m := range r.memberships {
		s.TotalMemberships++
		switch m.Status {
		case domain.MembershipActive:
			s.ActiveMemberships++
			s.TotalRevenue += m.Price
		case domain.MembershipExpired:
			s.ExpiredMemberships++
		}
	}
	return s, nil
}

// --- reviews ---

type memReviews struct{ *memStore }

func (r memReviews) FindAll(context.Context) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.reviews {
		out = append(out, *rv)
	}
	return out, nil
}

func (r memReviews) FindByID(_ context.Context, id int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *rv
	return &c, nil
}

func (r memReviews) FindByTrainer(_ context.Context, trainerID int64) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.reviews {
		if rv.TrainerID != nil && *rv.TrainerID == trainerID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r memReviews) Create(_ context.Context, rv *domain.Review) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rv
	c.ID = r.id()
	r.reviews[c.ID] = &c
	return c.ID, nil
}

func (r memReviews) Update(_ context.Context, id int64, p domain.ReviewPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return false, nil
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	if p.Comment != nil {
		rv.Comment = *p.Comment
	}
	return true, nil
}

func (r memReviews) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return false, nil
	}
	delete(r.reviews, id)
	return true, nil
}

func (r memReviews) GetAverageRating(ctx context.Context, trainerID int64) (domain.TrainerRating, error) {
	reviews, _ := r.FindByTrainer(ctx, trainerID)
	if len(reviews) == 0 {
		return domain.TrainerRating{}, nil
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return domain.TrainerRating{
		AverageRating: float64(sum) / float64(len(reviews)),
		TotalReviews:  int64(len(reviews)),
	}, nil
}

// --- collaborators ---

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	return m.Called().Error(0)
}

type FileStorageMock struct {
	mock.Mock
}

func (m *FileStorageMock) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// testServices bundles every service over one memStore.
type testServices struct {
	store       *memStore
	auth        AuthService
	users       UserService
	sessions    SessionService
	plans       WorkoutPlanService
	exercises   ExerciseService
	memberships MembershipService
	reviews     ReviewService
	dashboard   DashboardService
}
