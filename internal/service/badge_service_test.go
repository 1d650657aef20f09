package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
)

type fakeBadgeRepo struct {
	badges    map[uint]models.Badge
	purchases map[[2]uint]bool
	nextID    uint
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{
		badges:    map[uint]models.Badge{},
		purchases: map[[2]uint]bool{},
		nextID:    1,
	}
}

func (f *fakeBadgeRepo) Create(ctx context.Context, badge *models.Badge) error {
	badge.ID = f.nextID
	f.nextID++
	f.badges[badge.ID] = *badge
	return nil
}

func (f *fakeBadgeRepo) GetByID(ctx context.Context, id uint) (models.Badge, error) {
	badge, ok := f.badges[id]
	if !ok {
		return models.Badge{}, gorm.ErrRecordNotFound
	}
	return badge, nil
}

func (f *fakeBadgeRepo) GetByChallenge(ctx context.Context, challengeID uint) (models.Badge, error) {
	for _, badge := range f.badges {
		if badge.ChallengeID == challengeID {
			return badge, nil
		}
	}
	return models.Badge{}, gorm.ErrRecordNotFound
}

func (f *fakeBadgeRepo) ListChallengesWithoutBadge(ctx context.Context) ([]models.Challenge, error) {
	return nil, nil
}

func (f *fakeBadgeRepo) CreatePurchase(ctx context.Context, purchase *models.TeenBadge) error {
	f.purchases[[2]uint{purchase.TeenID, purchase.BadgeID}] = true
	return nil
}

func (f *fakeBadgeRepo) HasPurchase(ctx context.Context, teenID, badgeID uint) (bool, error) {
	return f.purchases[[2]uint{teenID, badgeID}], nil
}

type fakeChallengeRepo struct {
	challenges map[uint]models.Challenge
}

func (f *fakeChallengeRepo) Create(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = uint(len(f.challenges) + 1)
	f.challenges[challenge.ID] = *challenge
	return nil
}

func (f *fakeChallengeRepo) GetByID(ctx context.Context, id uint) (models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return models.Challenge{}, gorm.ErrRecordNotFound
	}
	return challenge, nil
}

func (f *fakeChallengeRepo) List(ctx context.Context, year int, month *int) ([]models.Challenge, error) {
	result := make([]models.Challenge, 0, len(f.challenges))
	for _, challenge := range f.challenges {
		result = append(result, challenge)
	}
	return result, nil
}

func (f *fakeChallengeRepo) Update(ctx context.Context, challenge *models.Challenge) error {
	f.challenges[challenge.ID] = *challenge
	return nil
}

func (f *fakeChallengeRepo) ExistsForMonth(ctx context.Context, year, month int) (bool, error) {
	for _, challenge := range f.challenges {
		if challenge.Year == year && challenge.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateBadgeDuplicateRejected(t *testing.T) {
	challenges := &fakeChallengeRepo{challenges: map[uint]models.Challenge{
		1: {ID: 1, Year: 2026, Month: 1, Title: "January"},
	}}
	badges := newFakeBadgeRepo()
	svc := NewBadgeService(badges, challenges, newTestValidator(), testLogger())

	_, err := svc.CreateBadge(context.Background(), 1, dto.BadgeCreateRequest{Name: "January Star", Price: 10})
	require.NoError(t, err)

	_, err = svc.CreateBadge(context.Background(), 1, dto.BadgeCreateRequest{Name: "Second Star", Price: 5})
	require.ErrorIs(t, err, ErrDuplicateBadge)
}

func TestPublishChallengeRequiresBadge(t *testing.T) {
	challenges := &fakeChallengeRepo{challenges: map[uint]models.Challenge{
		1: {ID: 1, Year: 2026, Month: 1, Title: "January", IsActive: true},
	}}
	badges := newFakeBadgeRepo()
	svc := NewBadgeService(badges, challenges, newTestValidator(), testLogger())

	_, err := svc.PublishChallenge(context.Background(), 1)
	require.ErrorIs(t, err, ErrBadgeRequired)

	// Attach a badge, then publication succeeds.
	challenge := challenges.challenges[1]
	challenge.Badge = &models.Badge{ID: 7, ChallengeID: 1, Name: "January Star"}
	challenges.challenges[1] = challenge

	published, err := svc.PublishChallenge(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, published.IsPublished)
}

func TestPurchaseBadgeOncePerTeen(t *testing.T) {
	challenges := &fakeChallengeRepo{challenges: map[uint]models.Challenge{
		1: {ID: 1, Year: 2026, Month: 1},
	}}
	badges := newFakeBadgeRepo()
	svc := NewBadgeService(badges, challenges, newTestValidator(), testLogger())

	created, err := svc.CreateBadge(context.Background(), 1, dto.BadgeCreateRequest{Name: "January Star", Price: 10})
	require.NoError(t, err)

	_, err = svc.PurchaseBadge(context.Background(), created.ID, dto.BadgePurchaseRequest{TeenID: 3})
	require.NoError(t, err)

	_, err = svc.PurchaseBadge(context.Background(), created.ID, dto.BadgePurchaseRequest{TeenID: 3})
	require.ErrorIs(t, err, ErrAlreadyPurchased)
}

func TestPurchaseBadgeInactiveRejected(t *testing.T) {
	challenges := &fakeChallengeRepo{challenges: map[uint]models.Challenge{
		1: {ID: 1, Year: 2026, Month: 1},
	}}
	badges := newFakeBadgeRepo()
	svc := NewBadgeService(badges, challenges, newTestValidator(), testLogger())

	inactive := false
	created, err := svc.CreateBadge(context.Background(), 1, dto.BadgeCreateRequest{Name: "Dormant", Price: 10, IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.PurchaseBadge(context.Background(), created.ID, dto.BadgePurchaseRequest{TeenID: 3})
	require.ErrorIs(t, err, ErrBadgeInactive)
}

func TestCreateBadgeChallengeNotFound(t *testing.T) {
	challenges := &fakeChallengeRepo{challenges: map[uint]models.Challenge{}}
	badges := newFakeBadgeRepo()
	svc := NewBadgeService(badges, challenges, newTestValidator(), testLogger())

	_, err := svc.CreateBadge(context.Background(), 42, dto.BadgeCreateRequest{Name: "Ghost", Price: 0})
	require.ErrorIs(t, err, ErrChallengeNotFound)
}
