// Package event 社团活动的发布与查询
// 写操作只允许社团的已通过管理员，查询对所有登录用户开放
package event

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/dto/respond"
	"unisocial_server/internal/model"
	"unisocial_server/internal/service/policy"
	"unisocial_server/pkg/constants"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/snowflake"
)

// eventService 社团活动业务逻辑实现
type eventService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewEventService 构造函数
func NewEventService(repos *repository.Repositories) *eventService {
	return &eventService{repos: repos, now: time.Now}
}

func lookupError(err error, notFoundMsg string) error {
	if errorx.IsNotFound(err) {
		return errorx.New(errorx.CodeNotFound, notFoundMsg)
	}
	zap.L().Error(err.Error())
	return errorx.ErrServerBusy
}

// requireClubAdmin 操作者必须是社团的已通过管理员
func (s *eventService) requireClubAdmin(ctx context.Context, actingUserId, clubId string) error {
	ok, err := policy.IsClubAdmin(ctx, s.repos.Membership, actingUserId, clubId)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if !ok {
		return errorx.New(errorx.CodeForbidden, "只有社团管理员可以管理活动")
	}
	return nil
}

// normalize 统一存 UTC、精确到秒，保证各数据库上时间比较一致
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func apply(e *model.ClubEvent, body request.EventBody) {
	e.Title = body.Title
	e.Description = body.Description
	e.BannerUrl = body.BannerUrl
	e.Location = body.Location
	e.StartTime = normalize(body.StartTime)
	e.EndTime = normalize(body.EndTime)
	e.RegistrationLink = body.RegistrationLink
	e.RegistrationDeadline = nil
	if body.RegistrationDeadline != nil {
		d := normalize(*body.RegistrationDeadline)
		e.RegistrationDeadline = &d
	}
	e.OdProvided = body.OdProvided != nil && *body.OdProvided
}

// CreateEvent 发布活动
func (s *eventService) CreateEvent(ctx context.Context, actingUserId string, req request.CreateEventRequest) (*respond.EventRespond, error) {
	club, err := s.repos.Club.FindByUuid(ctx, req.ClubId)
	if err != nil {
		return nil, lookupError(err, "社团不存在")
	}
	if err := s.requireClubAdmin(ctx, actingUserId, club.Uuid); err != nil {
		return nil, err
	}

	e := model.ClubEvent{
		Uuid:     snowflake.NewUuid(constants.EventUuidPrefix),
		ClubUuid: club.Uuid,
	}
	apply(&e, req.EventBody)
	if err := s.repos.Event.Create(ctx, &e); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := toRespond(&e, club)
	return &rsp, nil
}

// UpdateEvent 整体覆盖活动内容
func (s *eventService) UpdateEvent(ctx context.Context, actingUserId string, req request.UpdateEventRequest) (*respond.EventRespond, error) {
	e, err := s.repos.Event.FindByUuid(ctx, req.EventId)
	if err != nil {
		return nil, lookupError(err, "活动不存在")
	}
	if err := s.requireClubAdmin(ctx, actingUserId, e.ClubUuid); err != nil {
		return nil, err
	}
	apply(e, req.EventBody)
	if err := s.repos.Event.Update(ctx, e); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.view(ctx, e)
}

// DeleteEvent 删除活动
func (s *eventService) DeleteEvent(ctx context.Context, actingUserId, eventId string) error {
	e, err := s.repos.Event.FindByUuid(ctx, eventId)
	if err != nil {
		return lookupError(err, "活动不存在")
	}
	if err := s.requireClubAdmin(ctx, actingUserId, e.ClubUuid); err != nil {
		return err
	}
	if err := s.repos.Event.DeleteByUuid(ctx, e.Uuid); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// GetEvent 活动详情
func (s *eventService) GetEvent(ctx context.Context, eventId string) (*respond.EventRespond, error) {
	e, err := s.repos.Event.FindByUuid(ctx, eventId)
	if err != nil {
		return nil, lookupError(err, "活动不存在")
	}
	return s.view(ctx, e)
}

// ListClubEvents 社团的全部活动
func (s *eventService) ListClubEvents(ctx context.Context, clubId string) ([]respond.EventRespond, error) {
	if _, err := s.repos.Club.FindByUuid(ctx, clubId); err != nil {
		return nil, lookupError(err, "社团不存在")
	}
	es, err := s.repos.Event.FindByClub(ctx, clubId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.views(ctx, es)
}

// ListUpcomingEvents 尚未结束的活动，按开始时间升序
func (s *eventService) ListUpcomingEvents(ctx context.Context) ([]respond.EventRespond, error) {
	es, err := s.repos.Event.FindEndingAfter(ctx, normalize(s.now()))
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.views(ctx, es)
}

// ListEventsByMonth 按服务器本地时区，开始时间落在指定月份的活动
func (s *eventService) ListEventsByMonth(ctx context.Context, year, month int) ([]respond.EventRespond, error) {
	if month < 1 || month > 12 {
		return nil, errorx.New(errorx.CodeInvalidParam, "月份不合法")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)
	es, err := s.repos.Event.FindStartingBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.views(ctx, es)
}

func (s *eventService) view(ctx context.Context, e *model.ClubEvent) (*respond.EventRespond, error) {
	views, err := s.views(ctx, []model.ClubEvent{*e})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views 批量补齐社团名
func (s *eventService) views(ctx context.Context, es []model.ClubEvent) ([]respond.EventRespond, error) {
	rsp := make([]respond.EventRespond, 0, len(es))
	if len(es) == 0 {
		return rsp, nil
	}
	clubIds := make([]string, 0, len(es))
	for _, e := range es {
		clubIds = append(clubIds, e.ClubUuid)
	}
	clubs, err := s.repos.Club.FindByUuids(ctx, clubIds)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	clubMap := make(map[string]*model.ClubInfo, len(clubs))
	for i := range clubs {
		clubMap[clubs[i].Uuid] = &clubs[i]
	}
	for i := range es {
		rsp = append(rsp, toRespond(&es[i], clubMap[es[i].ClubUuid]))
	}
	return rsp, nil
}

func toRespond(e *model.ClubEvent, club *model.ClubInfo) respond.EventRespond {
	rsp := respond.EventRespond{
		EventId:              e.Uuid,
		ClubId:               e.ClubUuid,
		Title:                e.Title,
		Description:          e.Description,
		BannerUrl:            e.BannerUrl,
		Location:             e.Location,
		StartTime:            e.StartTime,
		EndTime:              e.EndTime,
		RegistrationLink:     e.RegistrationLink,
		RegistrationDeadline: e.RegistrationDeadline,
		OdProvided:           e.OdProvided,
		CreatedAt:            e.CreatedAt.Format(constants.TIME_LAYOUT),
	}
	if club != nil {
		rsp.ClubName = club.Name
	}
	return rsp
}
