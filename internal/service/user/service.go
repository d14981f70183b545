package user

import (
	"context"
	"sort"
	"strings"

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
	"unisocial_server/pkg/enum/user_info/user_role_enum"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/jwt"
	"unisocial_server/pkg/util/snowflake"
)

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
	// isBootstrapAdmin 注册时判断邮箱是否直接获得平台管理员角色
	isBootstrapAdmin func(email string) bool
}

// NewUserService 构造函数，注入所有依赖
func NewUserService(repos *repository.Repositories, cacheService myredis.AsyncCacheService, isBootstrapAdmin func(email string) bool) *userInfoService {
	if isBootstrapAdmin == nil {
		isBootstrapAdmin = func(string) bool { return false }
	}
	return &userInfoService{
		repos:            repos,
		cache:            cacheService,
		isBootstrapAdmin: isBootstrapAdmin,
	}
}

func toUserRespond(user *model.UserInfo) respond.UserInfoRespond {
	return respond.UserInfoRespond{
		Uuid:      user.Uuid,
		RegNo:     user.RegNo,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Bio:       user.Bio,
		DpUrl:     user.DpUrl,
		CreatedAt: user.CreatedAt.Format(constants.TIME_LAYOUT),
	}
}

func (u *userInfoService) findUser(ctx context.Context, userId string) (*model.UserInfo, error) {
	user, err := u.repos.User.FindByUuid(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return user, nil
}

// checkUnique 邮箱与学号都不能被占用
func (u *userInfoService) checkUnique(ctx context.Context, email, regNo string) error {
	if _, err := u.repos.User.FindByEmail(ctx, email); err == nil {
		return errorx.New(errorx.CodeUserExist, "该邮箱已被注册")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if _, err := u.repos.User.FindByRegNo(ctx, regNo); err == nil {
		return errorx.New(errorx.CodeUserExist, "该学号已被注册")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// Register 注册
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.UserInfoRespond, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := u.checkUnique(ctx, email, req.RegNo); err != nil {
		return nil, err
	}

	newUser := model.UserInfo{
		Uuid:        snowflake.NewUuid(constants.UserUuidPrefix),
		RegNo:       req.RegNo,
		Email:       email,
		Name:        req.Name,
		Role:        user_role_enum.USER,
		RawPassword: req.Password,
	}
	if u.isBootstrapAdmin(email) {
		newUser.Role = user_role_enum.ADMIN
	}

	if err := u.repos.User.Create(ctx, &newUser); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return nil, errorx.New(errorx.CodeUserExist, "邮箱或学号已被注册")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := toUserRespond(&newUser)
	return &rsp, nil
}

// Login 邮箱密码登录，签发双 Token
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}

	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 记录最新的 Refresh Token ID，旧设备的 Refresh Token 随之失效
	if err := u.cache.Set(ctx, constants.UserTokenKeyPrefix+user.Uuid, tokenID, jwt.RefreshTokenExpiry()); err != nil {
		zap.L().Error("存储 Token ID 失败", zap.Error(err))
	}

	return &respond.LoginRespond{
		UserInfoRespond: toUserRespond(user),
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
	}, nil
}

// GetUserInfo 获取用户资料
func (u *userInfoService) GetUserInfo(ctx context.Context, userId string) (*respond.UserInfoRespond, error) {
	user, err := u.findUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	rsp := toUserRespond(user)
	return &rsp, nil
}

// UpdateProfile 修改自己的资料，空字段不修改
func (u *userInfoService) UpdateProfile(ctx context.Context, actingUserId string, req request.UpdateProfileRequest) (*respond.UserInfoRespond, error) {
	user, err := u.findUser(ctx, actingUserId)
	if err != nil {
		return nil, err
	}
	nameChanged := req.Name != "" && req.Name != user.Name
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.DpUrl != "" {
		user.DpUrl = req.DpUrl
	}
	if err := u.repos.User.Update(ctx, user); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 社团详情缓存里有创建者姓名
	if nameChanged {
		u.cache.SubmitTask(func() {
			if err := u.cache.DeleteByPattern(context.Background(), constants.ClubInfoKeyPrefix+"*"); err != nil {
				zap.L().Error(err.Error())
			}
		})
	}

	rsp := toUserRespond(user)
	return &rsp, nil
}

// SearchUsers 按姓名或学号搜索用户
func (u *userInfoService) SearchUsers(ctx context.Context, query string) ([]respond.UserInfoRespond, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "搜索关键字不能为空")
	}
	users, err := u.repos.User.Search(ctx, query, constants.USER_SEARCH_LIMIT)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, toUserRespond(&users[i]))
	}
	return rsp, nil
}

// ListUsers 用户列表 - 平台管理员
func (u *userInfoService) ListUsers(ctx context.Context, actingUserId string) ([]respond.UserInfoRespond, error) {
	if err := u.requirePlatformAdmin(ctx, actingUserId); err != nil {
		return nil, err
	}
	users, err := u.repos.User.FindAll(ctx)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, toUserRespond(&users[i]))
	}
	return rsp, nil
}

// DeleteAccount 注销自己的账号
func (u *userInfoService) DeleteAccount(ctx context.Context, actingUserId string) error {
	return u.deleteUser(ctx, actingUserId)
}

// DeleteUser 删除指定用户 - 平台管理员，不能删除自己
func (u *userInfoService) DeleteUser(ctx context.Context, actingUserId, targetUserId string) error {
	if _, err := u.findUser(ctx, targetUserId); err != nil {
		return err
	}
	if err := u.requirePlatformAdmin(ctx, actingUserId); err != nil {
		return err
	}
	if actingUserId == targetUserId {
		return errorx.New(errorx.CodeInvalidParam, "不能删除自己的账号")
	}
	return u.deleteUser(ctx, targetUserId)
}

func (u *userInfoService) requirePlatformAdmin(ctx context.Context, actingUserId string) error {
	actor, err := u.repos.User.FindByUuid(ctx, actingUserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUnauthorized, "用户不存在或已被删除")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if !policy.IsPlatformAdmin(actor) {
		return errorx.New(errorx.CodeForbidden, "只有平台管理员可以执行该操作")
	}
	return nil
}

// deleteUser 删除用户及其全部成员关系
// 用户是某社团唯一管理员时拒绝删除
func (u *userInfoService) deleteUser(ctx context.Context, userId string) error {
	var clubIds []string
	err := u.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		if _, err := txRepos.User.FindByUuid(ctx, userId); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.New(errorx.CodeNotFound, "用户不存在")
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		ms, err := txRepos.Membership.FindByUser(ctx, userId)
		if err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		// 固定加锁顺序
		sort.Slice(ms, func(i, j int) bool { return ms[i].ClubUuid < ms[j].ClubUuid })
		for _, m := range ms {
			clubIds = append(clubIds, m.ClubUuid)
			if m.Role != membership_role_enum.ADMIN || m.Status != membership_status_enum.APPROVED {
				continue
			}
			admins, err := policy.LockClubAdmins(ctx, txRepos.Membership, m.ClubUuid)
			if err != nil {
				zap.L().Error(err.Error())
				return errorx.ErrServerBusy
			}
			if admins.IsLastAdmin(userId) {
				return errorx.Newf(errorx.CodeInvariantViolation, "该用户是社团 %s 唯一的管理员，请先移交管理员身份", m.ClubUuid)
			}
		}
		if err := txRepos.Membership.DeleteByUserUuid(ctx, userId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := txRepos.User.DeleteByUuid(ctx, userId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, clubId := range clubIds {
		if err := myredis.InvalidateClub(ctx, u.cache, clubId); err != nil {
			zap.L().Error(err.Error())
		}
	}
	u.cache.SubmitTask(func() {
		if err := u.cache.Delete(context.Background(), constants.UserTokenKeyPrefix+userId); err != nil {
			zap.L().Error(err.Error())
		}
	})
	return nil
}
