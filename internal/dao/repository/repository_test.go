package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unisocial_server/internal/dao/database"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/model"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/errorx"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory("test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func membership(uuid, club, user, role, status string) *model.ClubMembership {
	return &model.ClubMembership{
		Uuid: uuid, ClubUuid: club, UserUuid: user,
		Role: role, Status: status, JoinedAt: time.Now(),
	}
}

func TestMembershipUniquePerClubAndUser(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))

	require.NoError(t, repos.Membership.Create(ctx, membership("M1", "C1", "U1", membership_role_enum.MEMBER, membership_status_enum.PENDING)))
	err := repos.Membership.Create(ctx, membership("M2", "C1", "U1", membership_role_enum.MEMBER, membership_status_enum.PENDING))
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	_, err = repos.Membership.FindByUuid(ctx, "M404")
	assert.True(t, errorx.IsNotFound(err))
	_, err = repos.Membership.FindByClubAndUser(ctx, "C1", "U404")
	assert.True(t, errorx.IsNotFound(err))
}

func TestClubNameUnique(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	verified := false

	require.NoError(t, repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C1", Name: "Chess", Verified: &verified, CreatedByUuid: "U1"}))
	err := repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C2", Name: "Chess", Verified: &verified, CreatedByUuid: "U2"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 名称区分大小写
	require.NoError(t, repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C3", Name: "chess", Verified: &verified, CreatedByUuid: "U2"}))
	c, err := repos.Club.FindByName(ctx, "chess")
	require.NoError(t, err)
	assert.Equal(t, "C3", c.Uuid)
}

func TestClubListFilters(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	yes, no := true, false

	require.NoError(t, repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C1", Name: "a", Verified: &yes, CreatedByUuid: "U1"}))
	require.NoError(t, repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C2", Name: "b", Verified: &no, CreatedByUuid: "U1"}))
	require.NoError(t, repos.Club.Create(ctx, &model.ClubInfo{Uuid: "C3", Name: "c", Verified: &no, CreatedByUuid: "U1"}))
	require.NoError(t, repos.Club.UpdateVerified(ctx, "C3", nil))

	for _, tc := range []struct {
		filter repository.ClubListFilter
		want   int
	}{
		{repository.ClubFilterVerified, 1},
		{repository.ClubFilterPending, 1},
		{repository.ClubFilterAll, 3},
	} {
		clubs, err := repos.Club.List(ctx, tc.filter)
		require.NoError(t, err)
		assert.Len(t, clubs, tc.want)
	}

	c, err := repos.Club.FindByUuid(ctx, "C3")
	require.NoError(t, err)
	assert.Nil(t, c.Verified)
}

func TestUserSearchIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	require.NoError(t, repos.User.Create(ctx, &model.UserInfo{Uuid: "U1", RegNo: "21BCE001", Email: "a@u.edu", Name: "Alice", RawPassword: "secret1"}))
	require.NoError(t, repos.User.Create(ctx, &model.UserInfo{Uuid: "U2", RegNo: "21BCE002", Email: "b@u.edu", Name: "Bob", RawPassword: "secret2"}))

	users, err := repos.User.Search(ctx, "alI", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "U1", users[0].Uuid)
	assert.True(t, users[0].CheckPassword("secret1"))

	users, err = repos.User.Search(ctx, "bce", 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	err = repos.User.Create(ctx, &model.UserInfo{Uuid: "U3", RegNo: "X", Email: "a@u.edu", Name: "Eve"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	require.NoError(t, repos.Membership.Create(ctx, membership("M1", "C1", "U1", membership_role_enum.ADMIN, membership_status_enum.APPROVED)))

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		m, err := txRepos.Membership.FindByUuid(ctx, "M1")
		require.NoError(t, err)
		m.Role = membership_role_enum.MEMBER
		require.NoError(t, txRepos.Membership.Update(ctx, m))
		require.NoError(t, txRepos.Membership.Create(ctx, membership("M2", "C1", "U2", membership_role_enum.MEMBER, membership_status_enum.PENDING)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	m, err := repos.Membership.FindByUuid(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, membership_role_enum.ADMIN, m.Role)
	_, err = repos.Membership.FindByUuid(ctx, "M2")
	assert.True(t, errorx.IsNotFound(err))
}

func TestLockApprovedAdminsTakesRowLock(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	var locks []clause.Locking
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:record_locking", func(tx *gorm.DB) {
		if c, ok := tx.Statement.Clauses["FOR"]; ok {
			if l, ok := c.Expression.(clause.Locking); ok {
				locks = append(locks, l)
			}
		}
	}))
	repos := repository.NewRepositories(db)

	require.NoError(t, repos.Membership.Create(ctx, membership("M1", "C1", "U1", membership_role_enum.ADMIN, membership_status_enum.APPROVED)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M2", "C1", "U2", membership_role_enum.ADMIN, membership_status_enum.REJECTED)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M3", "C1", "U3", membership_role_enum.MEMBER, membership_status_enum.APPROVED)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M4", "C2", "U4", membership_role_enum.ADMIN, membership_status_enum.APPROVED)))

	err := repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		admins, err := txRepos.Membership.LockApprovedAdmins(ctx, "C1")
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, "U1", admins[0].UserUuid)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, locks, 1)
	assert.Equal(t, "UPDATE", locks[0].Strength)
}

func TestMembershipQueriesByClub(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	require.NoError(t, repos.Membership.Create(ctx, membership("M1", "C1", "U1", membership_role_enum.ADMIN, membership_status_enum.APPROVED)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M2", "C1", "U2", membership_role_enum.ADMIN, membership_status_enum.REJECTED)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M3", "C1", "U3", membership_role_enum.MEMBER, membership_status_enum.PENDING)))
	require.NoError(t, repos.Membership.Create(ctx, membership("M4", "C2", "U1", membership_role_enum.MEMBER, membership_status_enum.APPROVED)))

	all, err := repos.Membership.FindByClub(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := repos.Membership.FindByClubAndStatus(ctx, "C1", membership_status_enum.PENDING)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "M3", pending[0].Uuid)

	// 被拒绝的 ADMIN 记录不计入管理员数
	admins, err := repos.Membership.CountApprovedByClubAndRole(ctx, "C1", membership_role_enum.ADMIN)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	approved, err := repos.Membership.CountByClubAndStatus(ctx, "C1", membership_status_enum.APPROVED)
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)

	mine, err := repos.Membership.FindByUserAndStatus(ctx, "U1", membership_status_enum.APPROVED)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, repos.Membership.DeleteByClubUuid(ctx, "C1"))
	all, err = repos.Membership.FindByClub(ctx, "C1")
	require.NoError(t, err)
	assert.Empty(t, all)
	mine, err = repos.Membership.FindByUser(ctx, "U1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestClubEventQueries(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories(openDB(t))
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	event := func(uuid, club string, start time.Time) *model.ClubEvent {
		return &model.ClubEvent{
			Uuid: uuid, ClubUuid: club, Title: "t-" + uuid, Description: "d", Location: "hall",
			StartTime: start, EndTime: start.Add(2 * time.Hour),
		}
	}
	require.NoError(t, repos.Event.Create(ctx, event("E2", "C1", base.AddDate(0, 1, 0))))
	require.NoError(t, repos.Event.Create(ctx, event("E1", "C1", base)))
	require.NoError(t, repos.Event.Create(ctx, event("E3", "C2", base.AddDate(0, 0, 5))))

	es, err := repos.Event.FindByClub(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, "E1", es[0].Uuid)
	assert.Equal(t, "E2", es[1].Uuid)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	es, err = repos.Event.FindStartingBetween(ctx, march, march.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, "E1", es[0].Uuid)
	assert.Equal(t, "E3", es[1].Uuid)

	es, err = repos.Event.FindEndingAfter(ctx, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, "E3", es[0].Uuid)

	e, err := repos.Event.FindByUuid(ctx, "E1")
	require.NoError(t, err)
	deadline := base.Add(-time.Hour)
	e.Title = "renamed"
	e.OdProvided = true
	e.RegistrationDeadline = &deadline
	require.NoError(t, repos.Event.Update(ctx, e))
	e, err = repos.Event.FindByUuid(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", e.Title)
	assert.True(t, e.OdProvided)
	require.NotNil(t, e.RegistrationDeadline)
	assert.True(t, deadline.Equal(*e.RegistrationDeadline))

	require.NoError(t, repos.Event.DeleteByClubUuid(ctx, "C1"))
	es, err = repos.Event.FindByClub(ctx, "C1")
	require.NoError(t, err)
	assert.Empty(t, es)
	_, err = repos.Event.FindByUuid(ctx, "E3")
	require.NoError(t, err)
	require.NoError(t, repos.Event.DeleteByUuid(ctx, "E3"))
	_, err = repos.Event.FindByUuid(ctx, "E3")
	assert.True(t, errorx.IsNotFound(err))
}

func TestCanceledContextSkipsTransaction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := repository.NewRepositories(openDB(t)).Transaction(ctx, func(*repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
