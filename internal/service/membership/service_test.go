package membership

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unisocial_server/internal/dao/database"
	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/model"
	"unisocial_server/internal/service/notify"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/enum/user_info/user_role_enum"
	"unisocial_server/pkg/errorx"
)

type sentEvent struct {
	event      notify.Event
	recipients []string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.Event, recipients ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{event: event, recipients: recipients})
}

func (n *recordingNotifier) last() sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type fixture struct {
	ctx      context.Context
	repos    *repository.Repositories
	cache    *myredis.LocalCache
	notifier *recordingNotifier
	svc      *membershipService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory("test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	repos := repository.NewRepositories(db)
	cache := myredis.NewLocalCache()
	n := &recordingNotifier{}
	return &fixture{
		ctx:      context.Background(),
		repos:    repos,
		cache:    cache,
		notifier: n,
		svc:      NewMembershipService(repos, cache, n),
	}
}

func (f *fixture) user(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.repos.User.Create(f.ctx, &model.UserInfo{
		Uuid:  id,
		RegNo: "REG" + id,
		Email: id + "@university.edu",
		Name:  "name-" + id,
		Role:  user_role_enum.USER,
	}))
}

// club 创建社团，creator 为唯一管理员
func (f *fixture) club(t *testing.T, id, creator string) {
	t.Helper()
	verified := true
	require.NoError(t, f.repos.Club.Create(f.ctx, &model.ClubInfo{
		Uuid:          id,
		Name:          "club-" + id,
		Verified:      &verified,
		CreatedByUuid: creator,
	}))
	require.NoError(t, f.repos.Membership.Create(f.ctx, &model.ClubMembership{
		Uuid:     "M-" + id + "-" + creator,
		ClubUuid: id,
		UserUuid: creator,
		Role:     membership_role_enum.ADMIN,
		Status:   membership_status_enum.APPROVED,
	}))
}

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errorx.GetCode(err), err.Error())
}

func TestMembershipLifecycle(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.user(t, "U3")
	f.club(t, "C1", "U1")

	req, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	require.Equal(t, membership_status_enum.PENDING, req.Status)
	require.Equal(t, membership_role_enum.MEMBER, req.Role)
	require.Equal(t, "club-C1", req.ClubName)
	require.Equal(t, "name-U2", req.UserName)
	require.Equal(t, notify.EventRequested, f.notifier.last().event.Type)
	require.Equal(t, []string{"U1"}, f.notifier.last().recipients)

	_, err = f.svc.RequestJoin(f.ctx, "U2", "C1")
	requireCode(t, err, errorx.CodeConflict)

	pending, err := f.svc.ListPending(f.ctx, "U1", "C1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, req.MembershipId, pending[0].MembershipId)

	_, err = f.svc.Approve(f.ctx, "U3", req.MembershipId)
	requireCode(t, err, errorx.CodeForbidden)

	approved, err := f.svc.Approve(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)
	require.Equal(t, membership_status_enum.APPROVED, approved.Status)
	require.Equal(t, notify.EventApproved, f.notifier.last().event.Type)
	require.Equal(t, []string{"U2"}, f.notifier.last().recipients)

	// 重复审批不报错
	again, err := f.svc.Approve(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)
	require.Equal(t, membership_status_enum.APPROVED, again.Status)

	members, err := f.svc.ListMembers(f.ctx, "U1", "C1")
	require.NoError(t, err)
	require.Len(t, members, 2)

	pending, err = f.svc.ListPending(f.ctx, "U1", "C1")
	require.NoError(t, err)
	require.Empty(t, pending)

	// 普通成员不能查看
	_, err = f.svc.ListMembers(f.ctx, "U2", "C1")
	requireCode(t, err, errorx.CodeForbidden)

	promoted, err := f.svc.PromoteToAdmin(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)
	require.Equal(t, membership_role_enum.ADMIN, promoted.Role)

	// 新管理员可以降级原管理员
	demoted, err := f.svc.DemoteAdmin(f.ctx, "U2", "M-C1-U1")
	require.NoError(t, err)
	require.Equal(t, membership_role_enum.MEMBER, demoted.Role)

	// U2 现在是唯一管理员
	_, err = f.svc.DemoteAdmin(f.ctx, "U2", req.MembershipId)
	requireCode(t, err, errorx.CodeInvariantViolation)
	_, err = f.svc.RemoveMember(f.ctx, "U2", "C1", "U2")
	requireCode(t, err, errorx.CodeInvariantViolation)

	removed, err := f.svc.RemoveMember(f.ctx, "U2", "C1", "U1")
	require.NoError(t, err)
	require.Equal(t, "M-C1-U1", removed.MembershipId)
	require.Equal(t, membership_status_enum.APPROVED, removed.Status)
	require.Equal(t, notify.EventRemoved, f.notifier.last().event.Type)

	_, err = f.repos.Membership.FindByUuid(f.ctx, "M-C1-U1")
	require.True(t, errorx.IsNotFound(err))
}

func TestSoleAdminCannotDemoteSelf(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.club(t, "C1", "U1")

	_, err := f.svc.DemoteAdmin(f.ctx, "U1", "M-C1-U1")
	requireCode(t, err, errorx.CodeInvariantViolation)

	_, err = f.svc.Reject(f.ctx, "U1", "M-C1-U1")
	requireCode(t, err, errorx.CodeInvariantViolation)

	m, err := f.repos.Membership.FindByUuid(f.ctx, "M-C1-U1")
	require.NoError(t, err)
	require.True(t, m.IsApprovedAdmin())
}

func TestSelfDemotionRejectedEvenWithOtherAdmins(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")
	require.NoError(t, f.repos.Membership.Create(f.ctx, &model.ClubMembership{
		Uuid: "M2", ClubUuid: "C1", UserUuid: "U2",
		Role: membership_role_enum.ADMIN, Status: membership_status_enum.APPROVED,
	}))

	_, err := f.svc.DemoteAdmin(f.ctx, "U1", "M-C1-U1")
	requireCode(t, err, errorx.CodeInvariantViolation)
}

func TestPromoteRequiresApproved(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")

	req, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	_, err = f.svc.PromoteToAdmin(f.ctx, "U1", req.MembershipId)
	requireCode(t, err, errorx.CodeInvalidParam)
}

func TestRejectedUserCannotRejoin(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")

	req, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	rejected, err := f.svc.Reject(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)
	require.Equal(t, membership_status_enum.REJECTED, rejected.Status)

	_, err = f.svc.RequestJoin(f.ctx, "U2", "C1")
	requireCode(t, err, errorx.CodeConflict)
}

func TestNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")

	_, err := f.svc.RequestJoin(f.ctx, "U2", "C404")
	requireCode(t, err, errorx.CodeNotFound)

	_, err = f.svc.Approve(f.ctx, "U2", "M404")
	requireCode(t, err, errorx.CodeNotFound)

	_, err = f.svc.ListPending(f.ctx, "U2", "C404")
	requireCode(t, err, errorx.CodeNotFound)

	_, err = f.svc.ListPending(f.ctx, "U2", "C1")
	requireCode(t, err, errorx.CodeForbidden)
}

// 移除成员：社团 -> 操作者权限 -> 目标用户 -> 成员关系
func TestRemoveMemberCheckOrder(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")

	tests := []struct {
		name   string
		actor  string
		club   string
		target string
		code   int
	}{
		{"unknown club", "U2", "C404", "U404", errorx.CodeNotFound},
		{"non-admin before unknown user", "U2", "C1", "U404", errorx.CodeForbidden},
		{"non-admin before non-member", "U2", "C1", "U2", errorx.CodeForbidden},
		{"unknown user", "U1", "C1", "U404", errorx.CodeNotFound},
		{"not a member", "U1", "C1", "U2", errorx.CodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.RemoveMember(f.ctx, tc.actor, tc.club, tc.target)
			requireCode(t, err, tc.code)
		})
	}
}

func TestMutationsOnUnknownMembership(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.club(t, "C1", "U1")

	tests := []struct {
		name string
		call func(actor, membershipId string) error
	}{
		{"approve", func(a, m string) error { _, err := f.svc.Approve(f.ctx, a, m); return err }},
		{"reject", func(a, m string) error { _, err := f.svc.Reject(f.ctx, a, m); return err }},
		{"promote", func(a, m string) error { _, err := f.svc.PromoteToAdmin(f.ctx, a, m); return err }},
		{"demote", func(a, m string) error { _, err := f.svc.DemoteAdmin(f.ctx, a, m); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// 管理员和非成员都先得到 NotFound
			requireCode(t, tc.call("U1", "M404"), errorx.CodeNotFound)
			requireCode(t, tc.call("U404", "M404"), errorx.CodeNotFound)
		})
	}
}

func TestRemoveNonLastAdmin(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")
	require.NoError(t, f.repos.Membership.Create(f.ctx, &model.ClubMembership{
		Uuid: "M-C1-U2", ClubUuid: "C1", UserUuid: "U2",
		Role: membership_role_enum.ADMIN, Status: membership_status_enum.APPROVED,
	}))

	removed, err := f.svc.RemoveMember(f.ctx, "U1", "C1", "U2")
	require.NoError(t, err)
	require.Equal(t, membership_role_enum.ADMIN, removed.Role)

	members, err := f.svc.ListMembers(f.ctx, "U1", "C1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "U1", members[0].UserId)
}

func TestSoleAdminRemovalKeepsMembership(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")
	req, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	_, err = f.svc.Approve(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)

	before, err := f.repos.Membership.FindByClub(f.ctx, "C1")
	require.NoError(t, err)

	_, err = f.svc.RemoveMember(f.ctx, "U1", "C1", "U1")
	requireCode(t, err, errorx.CodeInvariantViolation)

	after, err := f.repos.Membership.FindByClub(f.ctx, "C1")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	m, err := f.repos.Membership.FindByUuid(f.ctx, "M-C1-U1")
	require.NoError(t, err)
	require.True(t, m.IsApprovedAdmin())
}

func TestListMembersIncludesEveryStatus(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.user(t, "U3")
	f.club(t, "C1", "U1")

	_, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	r3, err := f.svc.RequestJoin(f.ctx, "U3", "C1")
	require.NoError(t, err)
	_, err = f.svc.Reject(f.ctx, "U1", r3.MembershipId)
	require.NoError(t, err)

	members, err := f.svc.ListMembers(f.ctx, "U1", "C1")
	require.NoError(t, err)
	statuses := map[string]string{}
	for _, m := range members {
		statuses[m.UserId] = m.Status
	}
	require.Equal(t, map[string]string{
		"U1": membership_status_enum.APPROVED,
		"U2": membership_status_enum.PENDING,
		"U3": membership_status_enum.REJECTED,
	}, statuses)
}

// 被拒绝的管理员不再计入管理员
func TestRejectingAdminDropsRole(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")
	require.NoError(t, f.repos.Membership.Create(f.ctx, &model.ClubMembership{
		Uuid: "M-C1-U2", ClubUuid: "C1", UserUuid: "U2",
		Role: membership_role_enum.ADMIN, Status: membership_status_enum.APPROVED,
	}))

	rejected, err := f.svc.Reject(f.ctx, "U1", "M-C1-U2")
	require.NoError(t, err)
	require.Equal(t, membership_status_enum.REJECTED, rejected.Status)
	require.Equal(t, membership_role_enum.MEMBER, rejected.Role)

	n, err := f.repos.Membership.CountApprovedByClubAndRole(f.ctx, "C1", membership_role_enum.ADMIN)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// U2 已无管理权限
	_, err = f.svc.ListPending(f.ctx, "U2", "C1")
	requireCode(t, err, errorx.CodeForbidden)
}

func TestUserMembershipLists(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")
	f.club(t, "C2", "U1")

	m1, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	_, err = f.svc.RequestJoin(f.ctx, "U2", "C2")
	require.NoError(t, err)
	_, err = f.svc.Approve(f.ctx, "U1", m1.MembershipId)
	require.NoError(t, err)

	clubs, err := f.svc.ListUserClubs(f.ctx, "U2")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	require.Equal(t, "C1", clubs[0].ClubId)
	require.NotNil(t, clubs[0].ClubVerified)

	all, err := f.svc.ListAllUserMemberships(f.ctx, "U2")
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = f.svc.ListUserClubs(f.ctx, "U404")
	requireCode(t, err, errorx.CodeNotFound)
}

func TestMutationInvalidatesClubCache(t *testing.T) {
	f := newFixture(t)
	f.user(t, "U1")
	f.user(t, "U2")
	f.club(t, "C1", "U1")

	req, err := f.svc.RequestJoin(f.ctx, "U2", "C1")
	require.NoError(t, err)
	key, err := myredis.ClubInfoKey(f.ctx, f.cache, "C1")
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(f.ctx, key, "{}", time.Minute))

	_, err = f.svc.Approve(f.ctx, "U1", req.MembershipId)
	require.NoError(t, err)
	next, err := myredis.ClubInfoKey(f.ctx, f.cache, "C1")
	require.NoError(t, err)
	require.NotEqual(t, key, next)
	v, err := f.cache.Get(f.ctx, next)
	require.NoError(t, err)
	require.Empty(t, v)
}

// 两名管理员同时互相降级，最终必须至少保留一名
func TestConcurrentDemotionKeepsOneAdmin(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		f.user(t, "U1")
		f.user(t, "U2")
		f.club(t, "C1", "U1")
		require.NoError(t, f.repos.Membership.Create(f.ctx, &model.ClubMembership{
			Uuid: "M-C1-U2", ClubUuid: "C1", UserUuid: "U2",
			Role: membership_role_enum.ADMIN, Status: membership_status_enum.APPROVED,
		}))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = f.svc.DemoteAdmin(f.ctx, "U1", "M-C1-U2")
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = f.svc.DemoteAdmin(f.ctx, "U2", "M-C1-U1")
		}()
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
				code := errorx.GetCode(err)
				require.Contains(t, []int{errorx.CodeForbidden, errorx.CodeInvariantViolation}, code)
			}
		}
		require.Equal(t, 1, failed)

		n, err := f.repos.Membership.LockApprovedAdmins(f.ctx, "C1")
		require.NoError(t, err)
		require.Len(t, n, 1)
	}
}
