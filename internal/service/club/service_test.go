package club

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unisocial_server/internal/dao/database"
	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/model"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/enum/user_info/user_role_enum"
	"unisocial_server/pkg/errorx"
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

func setup(t *testing.T) (context.Context, *repository.Repositories, *myredis.LocalCache, *clubService) {
	t.Helper()
	ctx := context.Background()
	repos := openRepos(t)
	cache := myredis.NewLocalCache()
	for _, u := range []model.UserInfo{
		{Uuid: "U1", RegNo: "R1", Email: "u1@university.edu", Name: "Alice", Role: user_role_enum.USER},
		{Uuid: "U2", RegNo: "R2", Email: "u2@university.edu", Name: "Bob", Role: user_role_enum.USER},
		{Uuid: "UA", RegNo: "RA", Email: "admin@university.edu", Name: "Admin", Role: user_role_enum.ADMIN},
	} {
		u := u
		require.NoError(t, repos.User.Create(ctx, &u))
	}
	return ctx, repos, cache, NewClubService(repos, cache)
}

func TestCreateClub(t *testing.T) {
	ctx, repos, _, svc := setup(t)

	rsp, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess", Description: "chess club"})
	require.NoError(t, err)
	require.Equal(t, "Chess", rsp.Name)
	require.NotNil(t, rsp.Verified)
	require.False(t, *rsp.Verified)
	require.Equal(t, "Alice", rsp.CreatedByName)
	require.EqualValues(t, 1, rsp.MemberCount)
	require.EqualValues(t, 1, rsp.AdminCount)

	m, err := repos.Membership.FindByClubAndUser(ctx, rsp.ClubId, "U1")
	require.NoError(t, err)
	require.Equal(t, membership_role_enum.ADMIN, m.Role)
	require.Equal(t, membership_status_enum.APPROVED, m.Status)

	_, err = svc.CreateClub(ctx, "U2", request.CreateClubRequest{Name: "Chess"})
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	_, err = svc.CreateClub(ctx, "U404", request.CreateClubRequest{Name: "Go"})
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestListClubsByVerification(t *testing.T) {
	ctx, _, _, svc := setup(t)

	chess, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)
	_, err = svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Go"})
	require.NoError(t, err)
	drama, err := svc.CreateClub(ctx, "U2", request.CreateClubRequest{Name: "Drama"})
	require.NoError(t, err)

	_, err = svc.VerifyClub(ctx, "UA", chess.ClubId)
	require.NoError(t, err)
	rejected, err := svc.RejectClub(ctx, "UA", drama.ClubId)
	require.NoError(t, err)
	require.Nil(t, rejected.Verified)

	verified, err := svc.ListClubs(ctx, "")
	require.NoError(t, err)
	require.Len(t, verified, 1)
	require.Equal(t, "Chess", verified[0].Name)

	pending, err := svc.ListClubs(ctx, "false")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Go", pending[0].Name)

	all, err := svc.ListClubs(ctx, "all")
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.ListClubs(ctx, "maybe")
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestVerifyRequiresPlatformAdmin(t *testing.T) {
	ctx, _, _, svc := setup(t)
	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)

	_, err = svc.VerifyClub(ctx, "U1", club.ClubId)
	require.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	_, err = svc.VerifyClub(ctx, "UA", "C404")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	err = svc.DeleteClub(ctx, "U1", club.ClubId)
	require.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestUpdateClub(t *testing.T) {
	ctx, _, _, svc := setup(t)
	chess, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)
	_, err = svc.CreateClub(ctx, "U2", request.CreateClubRequest{Name: "Go"})
	require.NoError(t, err)

	_, err = svc.UpdateClub(ctx, "U2", request.UpdateClubRequest{ClubId: chess.ClubId, Description: "x"})
	require.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	_, err = svc.UpdateClub(ctx, "U1", request.UpdateClubRequest{ClubId: chess.ClubId, Name: "Go"})
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	updated, err := svc.UpdateClub(ctx, "U1", request.UpdateClubRequest{ClubId: chess.ClubId, Name: "Chess Club", Description: "new"})
	require.NoError(t, err)
	require.Equal(t, "Chess Club", updated.Name)
	require.Equal(t, "new", updated.Description)
}

func TestGetClubUsesCache(t *testing.T) {
	ctx, repos, cache, svc := setup(t)
	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)

	first, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	key, err := myredis.ClubInfoKey(ctx, cache, club.ClubId)
	require.NoError(t, err)
	cached, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.NotEmpty(t, cached)

	// 绕过 service 直接改库，缓存仍返回旧值
	require.NoError(t, repos.Club.Update(ctx, &model.ClubInfo{Uuid: club.ClubId, Name: "Renamed"}))
	second, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.Equal(t, first.Name, second.Name)

	// 认证后缓存失效
	_, err = svc.VerifyClub(ctx, "UA", club.ClubId)
	require.NoError(t, err)
	third, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.Equal(t, "Renamed", third.Name)
	require.True(t, *third.Verified)

	_, err = svc.GetClub(ctx, "C404")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

// deferredCache 把异步任务攒起来，由测试决定何时执行
type deferredCache struct {
	*myredis.LocalCache
	mu    sync.Mutex
	tasks []func()
}

func (d *deferredCache) SubmitTask(action func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, action)
}

func (d *deferredCache) flush() {
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

// 读请求的回填晚于修改落地时，不能把旧数据留在缓存里
func TestLateCacheFillAfterMutation(t *testing.T) {
	ctx := context.Background()
	repos := openRepos(t)
	require.NoError(t, repos.User.Create(ctx, &model.UserInfo{Uuid: "U1", RegNo: "R1", Email: "u1@university.edu", Name: "Alice", Role: user_role_enum.USER}))
	cache := &deferredCache{LocalCache: myredis.NewLocalCache()}
	svc := NewClubService(repos, cache)

	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)

	// 读到旧数据，回填还没执行
	stale, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.Equal(t, "Chess", stale.Name)

	_, err = svc.UpdateClub(ctx, "U1", request.UpdateClubRequest{ClubId: club.ClubId, Name: "Chess Club"})
	require.NoError(t, err)
	cache.flush()

	fresh, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.Equal(t, "Chess Club", fresh.Name)
}

func TestAdminCountIgnoresRejectedAdmins(t *testing.T) {
	ctx, repos, _, svc := setup(t)
	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)
	require.NoError(t, repos.Membership.Create(ctx, &model.ClubMembership{
		Uuid: "M-rejected", ClubUuid: club.ClubId, UserUuid: "U2",
		Role: membership_role_enum.ADMIN, Status: membership_status_enum.REJECTED,
	}))

	rsp, err := svc.GetClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.EqualValues(t, 1, rsp.AdminCount)
	require.EqualValues(t, 1, rsp.MemberCount)
}

func TestDeleteClubRemovesMembershipsAndEvents(t *testing.T) {
	ctx, repos, cache, svc := setup(t)
	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)
	other, err := svc.CreateClub(ctx, "U2", request.CreateClubRequest{Name: "Go"})
	require.NoError(t, err)
	start := time.Now().Add(24 * time.Hour)
	for _, e := range []model.ClubEvent{
		{Uuid: "E1", ClubUuid: club.ClubId, Title: "open", Description: "d", Location: "hall", StartTime: start, EndTime: start.Add(time.Hour)},
		{Uuid: "E2", ClubUuid: other.ClubId, Title: "go", Description: "d", Location: "hall", StartTime: start, EndTime: start.Add(time.Hour)},
	} {
		e := e
		require.NoError(t, repos.Event.Create(ctx, &e))
	}
	key, err := myredis.ClubInfoKey(ctx, cache, club.ClubId)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, key, "{}", time.Minute))

	require.NoError(t, svc.DeleteClub(ctx, "UA", club.ClubId))

	_, err = repos.Club.FindByUuid(ctx, club.ClubId)
	require.True(t, errorx.IsNotFound(err))
	ms, err := repos.Membership.FindByUser(ctx, "U1")
	require.NoError(t, err)
	require.Empty(t, ms)
	es, err := repos.Event.FindByClub(ctx, club.ClubId)
	require.NoError(t, err)
	require.Empty(t, es)
	_, err = repos.Event.FindByUuid(ctx, "E2")
	require.NoError(t, err)

	next, err := myredis.ClubInfoKey(ctx, cache, club.ClubId)
	require.NoError(t, err)
	require.NotEqual(t, key, next)
}

func TestGetMembershipStatus(t *testing.T) {
	ctx, _, _, svc := setup(t)
	club, err := svc.CreateClub(ctx, "U1", request.CreateClubRequest{Name: "Chess"})
	require.NoError(t, err)

	st, err := svc.GetMembershipStatus(ctx, "U1", club.ClubId)
	require.NoError(t, err)
	require.True(t, st.IsMember)
	require.Equal(t, membership_role_enum.ADMIN, st.Role)

	st, err = svc.GetMembershipStatus(ctx, "U2", club.ClubId)
	require.NoError(t, err)
	require.False(t, st.IsMember)
	require.Equal(t, membership_status_enum.NONE, st.Status)
	require.Equal(t, membership_role_enum.NONE, st.Role)
	require.Empty(t, st.MembershipId)

	_, err = svc.GetMembershipStatus(ctx, "U2", "C404")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
