// Package membership 社团成员关系的生命周期
// 申请 -> 审批/拒绝 -> 升降级 -> 移除，所有写操作都在事务内重新校验权限
package membership

import (
	"context"
	"time"

	"go.uber.org/zap"

	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/dto/respond"
	"unisocial_server/internal/model"
	"unisocial_server/internal/service/notify"
	"unisocial_server/internal/service/policy"
	"unisocial_server/pkg/constants"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/snowflake"
)

// membershipService 成员关系业务逻辑实现
type membershipService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	notifier notify.Notifier
}

// NewMembershipService 构造函数，注入所有依赖
func NewMembershipService(repos *repository.Repositories, cacheService myredis.AsyncCacheService, notifier notify.Notifier) *membershipService {
	return &membershipService{
		repos:    repos,
		cache:    cacheService,
		notifier: notifier,
	}
}

// lookupError 把查询错误转换为业务错误，NotFound 之外的错误记录日志后返回服务繁忙
func lookupError(err error, notFoundMsg string) error {
	if errorx.IsNotFound(err) {
		return errorx.New(errorx.CodeNotFound, notFoundMsg)
	}
	zap.L().Error(err.Error())
	return errorx.ErrServerBusy
}

func serverBusy(err error) error {
	zap.L().Error(err.Error())
	return errorx.ErrServerBusy
}

// RequestJoin 申请加入社团，生成一条 PENDING 的 MEMBER 记录
// 已有任何状态的记录（包括被拒绝）都不能再次申请
func (s *membershipService) RequestJoin(ctx context.Context, userId, clubId string) (*respond.ClubMembershipRespond, error) {
	club, err := s.repos.Club.FindByUuid(ctx, clubId)
	if err != nil {
		return nil, lookupError(err, "社团不存在")
	}
	if _, err := s.repos.User.FindByUuid(ctx, userId); err != nil {
		return nil, lookupError(err, "用户不存在")
	}

	m := model.ClubMembership{
		Uuid:     snowflake.NewUuid(constants.MembershipUuidPrefix),
		ClubUuid: clubId,
		UserUuid: userId,
		Role:     membership_role_enum.MEMBER,
		Status:   membership_status_enum.PENDING,
		JoinedAt: time.Now(),
	}
	var adminIds []string
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		existing, err := txRepos.Membership.FindByClubAndUser(ctx, clubId, userId)
		if err == nil {
			if existing.Status == membership_status_enum.PENDING {
				return errorx.New(errorx.CodeConflict, "已提交加入申请，请等待审核")
			}
			return errorx.New(errorx.CodeConflict, "已存在该社团的成员记录，不能重复申请")
		}
		if !errorx.IsNotFound(err) {
			return serverBusy(err)
		}
		if err := txRepos.Membership.Create(ctx, &m); err != nil {
			if errorx.GetCode(err) == errorx.CodeConflict {
				return errorx.New(errorx.CodeConflict, "已提交加入申请，请等待审核")
			}
			return serverBusy(err)
		}
		admins, err := txRepos.Membership.FindByClubAndStatus(ctx, clubId, membership_status_enum.APPROVED)
		if err != nil {
			return serverBusy(err)
		}
		for _, a := range admins {
			if a.IsApprovedAdmin() {
				adminIds = append(adminIds, a.UserUuid)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, s.event(notify.EventRequested, club, &m, userId), adminIds...)
	return s.view(ctx, &m)
}

// mutation 事务内加载成员关系、锁定社团管理员并校验操作者，再执行 apply
func (s *membershipService) mutation(
	ctx context.Context,
	actingUserId, membershipId string,
	apply func(txRepos *repository.Repositories, m *model.ClubMembership, admins policy.AdminSet) error,
) (*model.ClubMembership, error) {
	var out *model.ClubMembership
	err := s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		m, err := txRepos.Membership.FindByUuid(ctx, membershipId)
		if err != nil {
			return lookupError(err, "成员关系不存在")
		}
		admins, err := policy.LockClubAdmins(ctx, txRepos.Membership, m.ClubUuid)
		if err != nil {
			return serverBusy(err)
		}
		if !admins.Contains(actingUserId) {
			return errorx.New(errorx.CodeForbidden, "只有社团管理员可以执行该操作")
		}
		if err := apply(txRepos, m, admins); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// update 写回角色和状态
func update(ctx context.Context, txRepos *repository.Repositories, m *model.ClubMembership) error {
	if err := txRepos.Membership.Update(ctx, m); err != nil {
		return serverBusy(err)
	}
	return nil
}

// Approve 审批通过，已通过的记录再次审批不报错
func (s *membershipService) Approve(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error) {
	m, err := s.mutation(ctx, actingUserId, membershipId, func(txRepos *repository.Repositories, m *model.ClubMembership, _ policy.AdminSet) error {
		m.Status = membership_status_enum.APPROVED
		return update(ctx, txRepos, m)
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, notify.EventApproved, m, actingUserId)
	return s.view(ctx, m)
}

// Reject 拒绝申请，也可用于撤销已通过的成员
// 被拒绝的管理员同时失去管理员角色
func (s *membershipService) Reject(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error) {
	m, err := s.mutation(ctx, actingUserId, membershipId, func(txRepos *repository.Repositories, m *model.ClubMembership, admins policy.AdminSet) error {
		if admins.IsLastAdmin(m.UserUuid) {
			return errorx.New(errorx.CodeInvariantViolation, "不能拒绝社团唯一的管理员")
		}
		m.Status = membership_status_enum.REJECTED
		m.Role = membership_role_enum.MEMBER
		return update(ctx, txRepos, m)
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, notify.EventRejected, m, actingUserId)
	return s.view(ctx, m)
}

// PromoteToAdmin 把已通过的成员设为管理员
func (s *membershipService) PromoteToAdmin(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error) {
	m, err := s.mutation(ctx, actingUserId, membershipId, func(txRepos *repository.Repositories, m *model.ClubMembership, _ policy.AdminSet) error {
		if m.Status != membership_status_enum.APPROVED {
			return errorx.New(errorx.CodeInvalidParam, "只有已通过审核的成员可以设为管理员")
		}
		m.Role = membership_role_enum.ADMIN
		return update(ctx, txRepos, m)
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, notify.EventPromoted, m, actingUserId)
	return s.view(ctx, m)
}

// DemoteAdmin 取消管理员身份
// 不能取消自己的，也不能取消社团最后一名管理员的
func (s *membershipService) DemoteAdmin(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error) {
	m, err := s.mutation(ctx, actingUserId, membershipId, func(txRepos *repository.Repositories, m *model.ClubMembership, admins policy.AdminSet) error {
		if m.UserUuid == actingUserId {
			return errorx.New(errorx.CodeInvariantViolation, "不能取消自己的管理员身份")
		}
		if admins.IsLastAdmin(m.UserUuid) {
			return errorx.New(errorx.CodeInvariantViolation, "社团至少需要保留一名管理员")
		}
		m.Role = membership_role_enum.MEMBER
		return update(ctx, txRepos, m)
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, notify.EventDemoted, m, actingUserId)
	return s.view(ctx, m)
}

// RemoveMember 移除社团成员，返回删除前的成员关系
// 校验顺序：社团存在 -> 操作者是社团管理员 -> 目标用户存在 -> 目标是成员
func (s *membershipService) RemoveMember(ctx context.Context, actingUserId, clubId, targetUserId string) (*respond.ClubMembershipRespond, error) {
	if _, err := s.repos.Club.FindByUuid(ctx, clubId); err != nil {
		return nil, lookupError(err, "社团不存在")
	}

	var removed *model.ClubMembership
	var view *respond.ClubMembershipRespond
	err := s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		admins, err := policy.LockClubAdmins(ctx, txRepos.Membership, clubId)
		if err != nil {
			return serverBusy(err)
		}
		if !admins.Contains(actingUserId) {
			return errorx.New(errorx.CodeForbidden, "只有社团管理员可以移除成员")
		}
		if _, err := txRepos.User.FindByUuid(ctx, targetUserId); err != nil {
			return lookupError(err, "用户不存在")
		}
		m, err := txRepos.Membership.FindByClubAndUser(ctx, clubId, targetUserId)
		if err != nil {
			return lookupError(err, "该用户不是社团成员")
		}
		if admins.IsLastAdmin(targetUserId) {
			return errorx.New(errorx.CodeInvariantViolation, "不能移除社团唯一的管理员")
		}
		// 删除前组装视图
		if view, err = buildView(ctx, txRepos, m); err != nil {
			return serverBusy(err)
		}
		if err := txRepos.Membership.DeleteByUuid(ctx, m.Uuid); err != nil {
			return serverBusy(err)
		}
		removed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, notify.EventRemoved, removed, actingUserId)
	return view, nil
}

// ListPending 社团待审核的申请，仅社团管理员可见
func (s *membershipService) ListPending(ctx context.Context, actingUserId, clubId string) ([]respond.ClubMembershipRespond, error) {
	return s.listForAdmin(ctx, actingUserId, clubId, func(repo repository.ClubMembershipRepository) ([]model.ClubMembership, error) {
		return repo.FindByClubAndStatus(ctx, clubId, membership_status_enum.PENDING)
	})
}

// ListMembers 社团的全部成员记录（含待审核和已拒绝），仅社团管理员可见
func (s *membershipService) ListMembers(ctx context.Context, actingUserId, clubId string) ([]respond.ClubMembershipRespond, error) {
	return s.listForAdmin(ctx, actingUserId, clubId, func(repo repository.ClubMembershipRepository) ([]model.ClubMembership, error) {
		return repo.FindByClub(ctx, clubId)
	})
}

func (s *membershipService) listForAdmin(
	ctx context.Context,
	actingUserId, clubId string,
	find func(repo repository.ClubMembershipRepository) ([]model.ClubMembership, error),
) ([]respond.ClubMembershipRespond, error) {
	if _, err := s.repos.Club.FindByUuid(ctx, clubId); err != nil {
		return nil, lookupError(err, "社团不存在")
	}
	isAdmin, err := policy.IsClubAdmin(ctx, s.repos.Membership, actingUserId, clubId)
	if err != nil {
		return nil, serverBusy(err)
	}
	if !isAdmin {
		return nil, errorx.New(errorx.CodeForbidden, "只有社团管理员可以查看")
	}
	ms, err := find(s.repos.Membership)
	if err != nil {
		return nil, serverBusy(err)
	}
	views, err := buildViews(ctx, s.repos, ms)
	if err != nil {
		return nil, serverBusy(err)
	}
	return views, nil
}

// ListUserClubs 用户已加入的社团
func (s *membershipService) ListUserClubs(ctx context.Context, userId string) ([]respond.ClubMembershipRespond, error) {
	if _, err := s.repos.User.FindByUuid(ctx, userId); err != nil {
		return nil, lookupError(err, "用户不存在")
	}
	ms, err := s.repos.Membership.FindByUserAndStatus(ctx, userId, membership_status_enum.APPROVED)
	if err != nil {
		return nil, serverBusy(err)
	}
	views, err := buildViews(ctx, s.repos, ms)
	if err != nil {
		return nil, serverBusy(err)
	}
	return views, nil
}

// ListAllUserMemberships 用户的全部成员记录，包括待审核和已拒绝
func (s *membershipService) ListAllUserMemberships(ctx context.Context, userId string) ([]respond.ClubMembershipRespond, error) {
	if _, err := s.repos.User.FindByUuid(ctx, userId); err != nil {
		return nil, lookupError(err, "用户不存在")
	}
	ms, err := s.repos.Membership.FindByUser(ctx, userId)
	if err != nil {
		return nil, serverBusy(err)
	}
	views, err := buildViews(ctx, s.repos, ms)
	if err != nil {
		return nil, serverBusy(err)
	}
	return views, nil
}

func (s *membershipService) view(ctx context.Context, m *model.ClubMembership) (*respond.ClubMembershipRespond, error) {
	v, err := buildView(ctx, s.repos, m)
	if err != nil {
		return nil, serverBusy(err)
	}
	return v, nil
}

// afterMutation 事务提交后：作废社团详情缓存并推送事件给成员本人
func (s *membershipService) afterMutation(ctx context.Context, eventType string, m *model.ClubMembership, actingUserId string) {
	clubId := m.ClubUuid
	if err := myredis.InvalidateClub(ctx, s.cache, clubId); err != nil {
		zap.L().Error("作废社团缓存失败", zap.String("club_id", clubId), zap.Error(err))
	}

	var club *model.ClubInfo
	if c, err := s.repos.Club.FindByUuid(ctx, clubId); err == nil {
		club = c
	}
	s.notifier.Notify(ctx, s.event(eventType, club, m, actingUserId), m.UserUuid)
}

func (s *membershipService) event(eventType string, club *model.ClubInfo, m *model.ClubMembership, actingUserId string) notify.Event {
	e := notify.Event{
		Type:         eventType,
		ClubId:       m.ClubUuid,
		MembershipId: m.Uuid,
		UserId:       m.UserUuid,
		ActorId:      actingUserId,
		Role:         m.Role,
		Status:       m.Status,
	}
	if club != nil {
		e.ClubName = club.Name
	}
	return e
}
