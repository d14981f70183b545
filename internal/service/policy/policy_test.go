package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"unisocial_server/internal/dao/database"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/model"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/enum/user_info/user_role_enum"
)

func openRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := database.OpenMemory("test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewRepositories(db)
}

func addMembership(t *testing.T, repos *repository.Repositories, uuid, club, user, role, status string) {
	t.Helper()
	require.NoError(t, repos.Membership.Create(context.Background(), &model.ClubMembership{
		Uuid:     uuid,
		ClubUuid: club,
		UserUuid: user,
		Role:     role,
		Status:   status,
	}))
}

func TestIsPlatformAdmin(t *testing.T) {
	require.True(t, IsPlatformAdmin(&model.UserInfo{Role: user_role_enum.ADMIN}))
	require.False(t, IsPlatformAdmin(&model.UserInfo{Role: user_role_enum.USER}))
	require.False(t, IsPlatformAdmin(nil))
}

func TestIsClubAdmin(t *testing.T) {
	ctx := context.Background()
	repos := openRepos(t)
	addMembership(t, repos, "M1", "C1", "U1", membership_role_enum.ADMIN, membership_status_enum.APPROVED)
	addMembership(t, repos, "M2", "C1", "U2", membership_role_enum.MEMBER, membership_status_enum.APPROVED)
	addMembership(t, repos, "M3", "C1", "U3", membership_role_enum.ADMIN, membership_status_enum.REJECTED)

	cases := []struct {
		user string
		want bool
	}{
		{"U1", true},
		{"U2", false},
		{"U3", false},
		{"U4", false},
	}
	for _, c := range cases {
		got, err := IsClubAdmin(ctx, repos.Membership, c.user, "C1")
		require.NoError(t, err)
		require.Equal(t, c.want, got, c.user)
	}

	got, err := IsClubAdmin(ctx, repos.Membership, "U1", "C2")
	require.NoError(t, err)
	require.False(t, got)
}

func TestLockClubAdmins(t *testing.T) {
	ctx := context.Background()
	repos := openRepos(t)
	addMembership(t, repos, "M1", "C1", "U1", membership_role_enum.ADMIN, membership_status_enum.APPROVED)
	addMembership(t, repos, "M2", "C1", "U2", membership_role_enum.MEMBER, membership_status_enum.APPROVED)

	err := repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		admins, err := LockClubAdmins(ctx, txRepos.Membership, "C1")
		require.NoError(t, err)
		require.Len(t, admins, 1)
		require.True(t, admins.Contains("U1"))
		require.True(t, admins.IsLastAdmin("U1"))
		require.False(t, admins.IsLastAdmin("U2"))
		return nil
	})
	require.NoError(t, err)

	addMembership(t, repos, "M3", "C1", "U3", membership_role_enum.ADMIN, membership_status_enum.APPROVED)
	err = repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		admins, err := LockClubAdmins(ctx, txRepos.Membership, "C1")
		require.NoError(t, err)
		require.Len(t, admins, 2)
		require.False(t, admins.IsLastAdmin("U1"))
		return nil
	})
	require.NoError(t, err)
}
