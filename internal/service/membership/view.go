package membership

import (
	"context"

	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/dto/respond"
	"unisocial_server/internal/model"
	"unisocial_server/pkg/constants"
)

// buildViews 组装成员关系视图，社团名与用户名批量查询
func buildViews(ctx context.Context, repos *repository.Repositories, ms []model.ClubMembership) ([]respond.ClubMembershipRespond, error) {
	rsp := make([]respond.ClubMembershipRespond, 0, len(ms))
	if len(ms) == 0 {
		return rsp, nil
	}

	clubIds := make([]string, 0, len(ms))
	userIds := make([]string, 0, len(ms))
	for _, m := range ms {
		clubIds = append(clubIds, m.ClubUuid)
		userIds = append(userIds, m.UserUuid)
	}
	clubs, err := repos.Club.FindByUuids(ctx, clubIds)
	if err != nil {
		return nil, err
	}
	users, err := repos.User.FindByUuids(ctx, userIds)
	if err != nil {
		return nil, err
	}
	clubMap := make(map[string]*model.ClubInfo, len(clubs))
	for i := range clubs {
		clubMap[clubs[i].Uuid] = &clubs[i]
	}
	userMap := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userMap[users[i].Uuid] = &users[i]
	}

	for i := range ms {
		rsp = append(rsp, toView(&ms[i], clubMap[ms[i].ClubUuid], userMap[ms[i].UserUuid]))
	}
	return rsp, nil
}

// buildView 单条成员关系视图
func buildView(ctx context.Context, repos *repository.Repositories, m *model.ClubMembership) (*respond.ClubMembershipRespond, error) {
	views, err := buildViews(ctx, repos, []model.ClubMembership{*m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// toView club 或 user 已被删除时对应字段留空
func toView(m *model.ClubMembership, club *model.ClubInfo, user *model.UserInfo) respond.ClubMembershipRespond {
	v := respond.ClubMembershipRespond{
		MembershipId: m.Uuid,
		ClubId:       m.ClubUuid,
		UserId:       m.UserUuid,
		Role:         m.Role,
		Status:       m.Status,
		JoinedAt:     m.JoinedAt.Format(constants.TIME_LAYOUT),
	}
	if club != nil {
		v.ClubName = club.Name
		v.ClubVerified = club.Verified
	}
	if user != nil {
		v.UserName = user.Name
	}
	return v
}
