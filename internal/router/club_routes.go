// Package router 提供 HTTP 路由注册
// 本文件定义社团相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterClubRoutes 注册社团相关路由（需要认证）
// 包括社团创建、资料维护、入团申请、成员管理和活动
func (rt *Router) RegisterClubRoutes(rg *gin.RouterGroup) {
	clubGroup := rg.Group("/club")
	{
		// ===== 社团基本操作 =====
		clubGroup.POST("/createClub", rt.handlers.Club.CreateClub)
		clubGroup.GET("/getClubInfo", rt.handlers.Club.GetClubInfo)
		clubGroup.GET("/list", rt.handlers.Club.ListClubs)
		clubGroup.POST("/updateClub", rt.handlers.Club.UpdateClub) // 社团管理员

		// 入团
		clubGroup.POST("/join", rt.handlers.Club.Join)
		clubGroup.GET("/membershipStatus", rt.handlers.Club.MembershipStatus)

		// ===== 成员管理（社团管理员） =====
		membershipGroup := clubGroup.Group("/membership")
		{
			membershipGroup.GET("/pending", rt.handlers.Membership.Pending)
			membershipGroup.GET("/members", rt.handlers.Membership.Members)
			membershipGroup.POST("/approve", rt.handlers.Membership.Approve)
			membershipGroup.POST("/reject", rt.handlers.Membership.Reject)
			membershipGroup.POST("/promote", rt.handlers.Membership.Promote)
			membershipGroup.POST("/demote", rt.handlers.Membership.Demote)
			membershipGroup.POST("/remove", rt.handlers.Membership.Remove)
		}

		// ===== 活动 =====
		eventGroup := clubGroup.Group("/event")
		{
			eventGroup.GET("/get", rt.handlers.Event.Get)
			eventGroup.GET("/list", rt.handlers.Event.ListByClub)
			eventGroup.GET("/upcoming", rt.handlers.Event.Upcoming)
			eventGroup.GET("/month", rt.handlers.Event.ByMonth)
			eventGroup.POST("/create", rt.handlers.Event.Create) // 社团管理员
			eventGroup.POST("/update", rt.handlers.Event.Update) // 社团管理员
			eventGroup.POST("/delete", rt.handlers.Event.Delete) // 社团管理员
		}
	}
}
