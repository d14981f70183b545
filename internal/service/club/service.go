// Package club 社团的创建、查询、资料维护与平台认证
package club

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/dto/respond"
	"unisocial_server/internal/model"
	"unisocial_server/internal/service/policy"
	"unisocial_server/pkg/constants"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/snowflake"
)

// clubService 社团业务逻辑实现
type clubService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewClubService 构造函数，注入所有依赖
func NewClubService(repos *repository.Repositories, cacheService myredis.AsyncCacheService) *clubService {
	return &clubService{
		repos: repos,
		cache: cacheService,
	}
}

func (s *clubService) findClub(ctx context.Context, clubId string) (*model.ClubInfo, error) {
	club, err := s.repos.Club.FindByUuid(ctx, clubId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "社团不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return club, nil
}

// requirePlatformAdmin 操作者必须是平台管理员
func (s *clubService) requirePlatformAdmin(ctx context.Context, actingUserId string) error {
	user, err := s.repos.User.FindByUuid(ctx, actingUserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUnauthorized, "用户不存在或已被删除")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if !policy.IsPlatformAdmin(user) {
		return errorx.New(errorx.CodeForbidden, "只有平台管理员可以执行该操作")
	}
	return nil
}

// CreateClub 创建社团，创建者自动成为已通过的社团管理员
// 新社团处于待认证状态
func (s *clubService) CreateClub(ctx context.Context, actingUserId string, req request.CreateClubRequest) (*respond.ClubRespond, error) {
	creator, err := s.repos.User.FindByUuid(ctx, actingUserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "用户不存在或已被删除")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.checkNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	verified := false
	club := model.ClubInfo{
		Uuid:          snowflake.NewUuid(constants.ClubUuidPrefix),
		Name:          req.Name,
		Description:   req.Description,
		LogoUrl:       req.LogoUrl,
		Verified:      &verified,
		CreatedByUuid: creator.Uuid,
	}
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Club.Create(ctx, &club); err != nil {
			if errorx.GetCode(err) == errorx.CodeConflict {
				return errorx.New(errorx.CodeConflict, "社团名称已存在")
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		admin := model.ClubMembership{
			Uuid:     snowflake.NewUuid(constants.MembershipUuidPrefix),
			ClubUuid: club.Uuid,
			UserUuid: creator.Uuid,
			Role:     membership_role_enum.ADMIN,
			Status:   membership_status_enum.APPROVED,
			JoinedAt: time.Now(),
		}
		if err := txRepos.Membership.Create(ctx, &admin); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildClubRespond(ctx, &club)
}

// checkNameFree 社团名是否可用，exceptId 为正在修改的社团自身
func (s *clubService) checkNameFree(ctx context.Context, name, exceptId string) error {
	existing, err := s.repos.Club.FindByName(ctx, name)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if existing.Uuid == exceptId {
		return nil
	}
	return errorx.New(errorx.CodeConflict, "社团名称已存在")
}

// GetClub 社团详情，优先读缓存
// 缓存 key 带版本号，回填在读库之前就确定了版本，期间发生的修改会让这次回填失效
func (s *clubService) GetClub(ctx context.Context, clubId string) (*respond.ClubRespond, error) {
	cacheKey, err := myredis.ClubInfoKey(ctx, s.cache, clubId)
	if err != nil {
		zap.L().Error(err.Error())
	}
	if cacheKey != "" {
		rspString, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			zap.L().Error(err.Error())
		} else if rspString != "" {
			var rsp respond.ClubRespond
			if err := json.Unmarshal([]byte(rspString), &rsp); err == nil {
				return &rsp, nil
			}
			zap.L().Warn("社团缓存格式错误", zap.String("key", cacheKey))
		}
	}

	club, err := s.findClub(ctx, clubId)
	if err != nil {
		return nil, err
	}
	rsp, err := s.buildClubRespond(ctx, club)
	if err != nil {
		return nil, err
	}
	if cacheKey == "" {
		return rsp, nil
	}

	s.cache.SubmitTask(func() {
		data, err := json.Marshal(rsp)
		if err != nil {
			zap.L().Error(err.Error())
			return
		}
		if err := s.cache.Set(context.Background(), cacheKey, string(data), time.Minute*constants.REDIS_TIMEOUT); err != nil {
			zap.L().Error(err.Error())
		}
	})
	return rsp, nil
}

// ListClubs 按认证状态列出社团：true（默认）、false、all
func (s *clubService) ListClubs(ctx context.Context, verified string) ([]respond.ClubRespond, error) {
	var filter repository.ClubListFilter
	switch verified {
	case "", "true":
		filter = repository.ClubFilterVerified
	case "false":
		filter = repository.ClubFilterPending
	case "all":
		filter = repository.ClubFilterAll
	default:
		return nil, errorx.New(errorx.CodeInvalidParam, "verified 只能是 true、false 或 all")
	}

	clubs, err := s.repos.Club.List(ctx, filter)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.ClubRespond, 0, len(clubs))
	for i := range clubs {
		r, err := s.buildClubRespond(ctx, &clubs[i])
		if err != nil {
			return nil, err
		}
		rsp = append(rsp, *r)
	}
	return rsp, nil
}

// UpdateClub 修改社团资料，仅社团管理员
func (s *clubService) UpdateClub(ctx context.Context, actingUserId string, req request.UpdateClubRequest) (*respond.ClubRespond, error) {
	club, err := s.findClub(ctx, req.ClubId)
	if err != nil {
		return nil, err
	}
	isAdmin, err := policy.IsClubAdmin(ctx, s.repos.Membership, actingUserId, club.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !isAdmin {
		return nil, errorx.New(errorx.CodeForbidden, "只有社团管理员可以修改社团资料")
	}

	if req.Name != "" && req.Name != club.Name {
		if err := s.checkNameFree(ctx, req.Name, club.Uuid); err != nil {
			return nil, err
		}
		club.Name = req.Name
	}
	if req.Description != "" {
		club.Description = req.Description
	}
	if req.LogoUrl != "" {
		club.LogoUrl = req.LogoUrl
	}
	if err := s.repos.Club.Update(ctx, club); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return nil, errorx.New(errorx.CodeConflict, "社团名称已存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.invalidate(ctx, club.Uuid)
	return s.buildClubRespond(ctx, club)
}

// DeleteClub 删除社团及其全部活动和成员关系，仅平台管理员
func (s *clubService) DeleteClub(ctx context.Context, actingUserId, clubId string) error {
	if _, err := s.findClub(ctx, clubId); err != nil {
		return err
	}
	if err := s.requirePlatformAdmin(ctx, actingUserId); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Event.DeleteByClubUuid(ctx, clubId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := txRepos.Membership.DeleteByClubUuid(ctx, clubId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := txRepos.Club.DeleteByUuid(ctx, clubId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, clubId)
	return nil
}

// VerifyClub 平台认证社团
func (s *clubService) VerifyClub(ctx context.Context, actingUserId, clubId string) (*respond.ClubRespond, error) {
	verified := true
	return s.setVerified(ctx, actingUserId, clubId, &verified)
}

// RejectClub 平台驳回社团，认证状态置空
func (s *clubService) RejectClub(ctx context.Context, actingUserId, clubId string) (*respond.ClubRespond, error) {
	return s.setVerified(ctx, actingUserId, clubId, nil)
}

func (s *clubService) setVerified(ctx context.Context, actingUserId, clubId string, verified *bool) (*respond.ClubRespond, error) {
	club, err := s.findClub(ctx, clubId)
	if err != nil {
		return nil, err
	}
	if err := s.requirePlatformAdmin(ctx, actingUserId); err != nil {
		return nil, err
	}
	if err := s.repos.Club.UpdateVerified(ctx, clubId, verified); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	club.Verified = verified

	s.invalidate(ctx, clubId)
	return s.buildClubRespond(ctx, club)
}

// GetMembershipStatus 当前用户在社团中的成员状态，没有记录时返回 NONE
func (s *clubService) GetMembershipStatus(ctx context.Context, actingUserId, clubId string) (*respond.MembershipStatusRespond, error) {
	if _, err := s.findClub(ctx, clubId); err != nil {
		return nil, err
	}
	m, err := s.repos.Membership.FindByClubAndUser(ctx, clubId, actingUserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.MembershipStatusRespond{
				IsMember: false,
				Status:   membership_status_enum.NONE,
				Role:     membership_role_enum.NONE,
			}, nil
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return &respond.MembershipStatusRespond{
		IsMember:     m.Status == membership_status_enum.APPROVED,
		Status:       m.Status,
		Role:         m.Role,
		MembershipId: m.Uuid,
	}, nil
}

// invalidate 同步递增版本号，返回前旧缓存就已不可见
func (s *clubService) invalidate(ctx context.Context, clubId string) {
	if err := myredis.InvalidateClub(ctx, s.cache, clubId); err != nil {
		zap.L().Error("作废社团缓存失败", zap.String("club_id", clubId), zap.Error(err))
	}
}

// buildClubRespond 补齐创建者姓名与成员数
func (s *clubService) buildClubRespond(ctx context.Context, club *model.ClubInfo) (*respond.ClubRespond, error) {
	rsp := &respond.ClubRespond{
		ClubId:          club.Uuid,
		Name:            club.Name,
		Description:     club.Description,
		LogoUrl:         club.LogoUrl,
		Verified:        club.Verified,
		CreatedAt:       club.CreatedAt.Format(constants.TIME_LAYOUT),
		CreatedByUserId: club.CreatedByUuid,
	}
	creator, err := s.repos.User.FindByUuid(ctx, club.CreatedByUuid)
	switch {
	case err == nil:
		rsp.CreatedByName = creator.Name
	case !errorx.IsNotFound(err):
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	count, err := s.repos.Membership.CountByClubAndStatus(ctx, club.Uuid, membership_status_enum.APPROVED)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp.MemberCount = count
	if rsp.AdminCount, err = s.repos.Membership.CountApprovedByClubAndRole(ctx, club.Uuid, membership_role_enum.ADMIN); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return rsp, nil
}
