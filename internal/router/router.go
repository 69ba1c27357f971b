package router

import (
	"net/http"

	"VidTube/internal/handler"
	"VidTube/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         handler.UserHandler
	Otp          handler.OtpHandler
	Video        handler.VideoHandler
	Comment      handler.CommentHandler
	Like         handler.LikeHandler
	Subscription handler.SubscriptionHandler
	Playlist     handler.PlaylistHandler
	Tweet        handler.TweetHandler
	Dashboard    handler.DashboardHandler
	History      handler.HistoryHandler
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.Default()
	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Envelope{Status: http.StatusOK, Data: gin.H{"healthy": true}, Message: "OK"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公共接口带OptionalAuth：登录用户能看到"是否点赞/是否订阅"，匿名用户这些字段恒为false
		public := apiV1.Group("/")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/videos", h.Video.ListVideos)
			public.GET("/videos/:video_id", h.Video.GetVideo)
			public.GET("/videos/:video_id/comments", h.Comment.ListVideoComments)
			public.GET("/comments/:comment_id/replies", h.Comment.ListReplies)
			public.GET("/tweets/:tweet_id", h.Tweet.GetTweet)
			public.GET("/tweets/:tweet_id/comments", h.Comment.ListTweetComments)

			public.GET("/users/search", h.User.SearchChannels)
			public.GET("/users/c/:username", h.User.GetChannelProfile)
			public.GET("/users/c/:username/socials", h.User.GetSocials)
			public.GET("/users/:user_id/tweets", h.Tweet.ListUserTweets)
			public.GET("/users/:user_id/playlists", h.Playlist.ListUserPlaylists)
			public.GET("/users/:user_id/subscriptions", h.Subscription.ListSubscribedChannels)
			public.GET("/playlists/:playlist_id", h.Playlist.GetPlaylist)
			public.GET("/channels/:channel_id/subscribers", h.Subscription.ListSubscribers)
			public.GET("/channels/:channel_id/subscription-status", h.Subscription.SubscriptionStatus)
		}

		// 认证入口，不需要任何令牌
		apiV1.POST("/otp/send", h.Otp.SendCode)
		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", h.User.Register)
			userGroup.POST("/login", h.User.Login)
			userGroup.POST("/refresh-token", h.User.RefreshTokens)
			userGroup.POST("/reset-password", h.User.ResetPassword)
			userGroup.GET("/check-username", h.User.CheckUsername)
			userGroup.GET("/check-email", h.User.CheckEmail)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.RequireAuth())
		{
			authorized.POST("/users/logout", h.User.Logout)
			authorized.POST("/users/change-password", h.User.ChangePassword)
			authorized.GET("/users/me", h.User.GetCurrentUser)
			authorized.PATCH("/users/me", h.User.UpdateAccount)
			authorized.PATCH("/users/me/avatar", h.User.UpdateAvatar)
			authorized.PATCH("/users/me/cover", h.User.UpdateCover)
			authorized.PUT("/users/me/socials", h.User.UpdateSocials)
			authorized.GET("/users/me/history", h.History.GetWatchHistory)
			authorized.DELETE("/users/me/history", h.History.ClearHistory)
			authorized.GET("/users/me/liked-videos", h.Like.ListLikedVideos)

			authorized.POST("/videos", h.Video.PublishVideo)
			authorized.PATCH("/videos/:video_id", h.Video.UpdateVideo)
			authorized.DELETE("/videos/:video_id", h.Video.DeleteVideo)
			authorized.PATCH("/videos/:video_id/toggle-publish", h.Video.TogglePublish)

			authorized.POST("/videos/:video_id/comments", h.Comment.AddVideoComment)
			authorized.POST("/tweets/:tweet_id/comments", h.Comment.AddTweetComment)
			authorized.POST("/comments/:comment_id/replies", h.Comment.AddReply)
			authorized.PATCH("/comments/:comment_id", h.Comment.UpdateComment)
			authorized.DELETE("/comments/:comment_id", h.Comment.DeleteComment)

			authorized.POST("/videos/:video_id/like", h.Like.ToggleVideoLike)
			authorized.POST("/comments/:comment_id/like", h.Like.ToggleCommentLike)
			authorized.POST("/tweets/:tweet_id/like", h.Like.ToggleTweetLike)

			authorized.POST("/channels/:channel_id/subscribe", h.Subscription.ToggleSubscription)

			authorized.POST("/playlists", h.Playlist.CreatePlaylist)
			authorized.PATCH("/playlists/:playlist_id", h.Playlist.UpdatePlaylist)
			authorized.DELETE("/playlists/:playlist_id", h.Playlist.DeletePlaylist)
			authorized.POST("/playlists/:playlist_id/videos/:video_id", h.Playlist.AddVideo)
			authorized.DELETE("/playlists/:playlist_id/videos/:video_id", h.Playlist.RemoveVideo)

			authorized.POST("/tweets", h.Tweet.CreateTweet)
			authorized.PATCH("/tweets/:tweet_id", h.Tweet.UpdateTweet)
			authorized.DELETE("/tweets/:tweet_id", h.Tweet.DeleteTweet)

			authorized.GET("/dashboard/stats", h.Dashboard.GetStats)
			authorized.GET("/dashboard/videos", h.Dashboard.GetChannelVideos)
		}
	}

	return r
}
