package routes

import (
	"everfresh/auth"
	"everfresh/cart"
	"everfresh/catalog"
	"everfresh/collections"
	"everfresh/delivery"
	"everfresh/live"
	"everfresh/middleware"
	"everfresh/notifications"
	"everfresh/orders"
	"everfresh/payments"
	"everfresh/ratelim"
	"everfresh/ratings"
	"everfresh/users"
	"everfresh/vouchers"

	"github.com/julienschmidt/httprouter"
)

// Admin listings live under /api/admin so the public wildcard routes
// (/:id) never collide with static segments.

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/plants", catalog.GetPlants)
	router.GET("/api/plants/:id", catalog.GetPlantByID)
	router.GET("/api/admin/plants", middleware.AuthenticateAdmin(catalog.GetAllPlants))
	router.POST("/api/plants", middleware.AuthenticateAdmin(catalog.CreatePlant))
	router.PUT("/api/plants/:id", middleware.AuthenticateAdmin(catalog.UpdatePlant))
	router.PATCH("/api/plants/:id/status", middleware.AuthenticateAdmin(catalog.ChangePlantStatus))

	router.GET("/api/planters", catalog.GetPlanters)
	router.GET("/api/planters/:id", catalog.GetPlanterByID)
	router.GET("/api/admin/planters", middleware.AuthenticateAdmin(catalog.GetAllPlanters))
	router.POST("/api/planters", middleware.AuthenticateAdmin(catalog.CreatePlanter))
	router.PUT("/api/planters/:id", middleware.AuthenticateAdmin(catalog.UpdatePlanter))
	router.PATCH("/api/planters/:id/status", middleware.AuthenticateAdmin(catalog.ChangePlanterStatus))

	router.GET("/api/seeds", catalog.GetSeeds)
	router.GET("/api/seeds/:id", catalog.GetSeedByID)
	router.GET("/api/admin/seeds", middleware.AuthenticateAdmin(catalog.GetAllSeeds))
	router.POST("/api/seeds", middleware.AuthenticateAdmin(catalog.CreateSeed))
	router.PUT("/api/seeds/:id", middleware.AuthenticateAdmin(catalog.UpdateSeed))
	router.PATCH("/api/seeds/:id/status", middleware.AuthenticateAdmin(catalog.ChangeSeedStatus))

	router.GET("/api/genus", catalog.GetGenuses)
	router.POST("/api/genus", middleware.AuthenticateAdmin(catalog.CreateGenus))
	router.PUT("/api/genus/:id", middleware.AuthenticateAdmin(catalog.UpdateGenus))
	router.DELETE("/api/genus/:id", middleware.AuthenticateAdmin(catalog.DeleteGenus))

	router.GET("/api/planttypes", catalog.GetPlantTypes)
	router.POST("/api/planttypes", middleware.AuthenticateAdmin(catalog.CreatePlantType))
	router.PUT("/api/planttypes/:id", middleware.AuthenticateAdmin(catalog.UpdatePlantType))
	router.DELETE("/api/planttypes/:id", middleware.AuthenticateAdmin(catalog.DeletePlantType))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.AuthenticateCustomer(cart.GetCart))
	router.POST("/api/cart/items", middleware.AuthenticateCustomer(cart.AddItem))
	router.PATCH("/api/cart/items/:id", middleware.AuthenticateCustomer(cart.UpdateItemQuantity))
	router.DELETE("/api/cart/items/:id", middleware.AuthenticateCustomer(cart.RemoveItem))
	router.GET("/api/cart/suggestions", middleware.AuthenticateCustomer(cart.GetSuggestions))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", middleware.AuthenticateCustomer(orders.CreateOrder))
	router.GET("/api/orders", middleware.AuthenticateCustomer(orders.GetOrdersOfCustomer))
	router.GET("/api/admin/orders", middleware.AuthenticateAdmin(orders.GetAllOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(orders.GetOrderByID))
	router.GET("/api/orders/:id/invoice", middleware.Authenticate(orders.GetOrderInvoice))
	router.PATCH("/api/orders/:id/status", middleware.AuthenticateAdmin(orders.ChangeOrderStatus))
	router.PATCH("/api/orders/:id/fail", middleware.AuthenticateAdmin(orders.FailDelivery))
	router.DELETE("/api/orders/:id", middleware.AuthenticateAdmin(orders.DeleteOrder))
}

func AddPaymentRoutes(router *httprouter.Router) {
	router.POST("/api/payment/momo", middleware.AuthenticateCustomer(payments.CreateMoMoPayment))
	router.POST("/api/payment/momo/upgrade", middleware.AuthenticateCustomer(payments.CreateMoMoRankUpgrade))
	router.GET("/api/payment/momo/callback", payments.MoMoCallback)
	router.GET("/api/payment/momo/qr", payments.GetMoMoPayQR)
	router.POST("/api/payment/stripe", middleware.AuthenticateCustomer(payments.CreateStripeCheckout))
	router.GET("/api/payment/stripe/callback", payments.StripeCallback)
}

func AddRatingRoutes(router *httprouter.Router) {
	router.POST("/api/ratings", middleware.AuthenticateCustomer(ratings.CreateRating))
	router.PUT("/api/ratings/:id", middleware.AuthenticateCustomer(ratings.UpdateRating))
	router.DELETE("/api/ratings/:id", middleware.AuthenticateCustomer(ratings.DeleteRating))
	router.GET("/api/products/:id/ratings", ratings.GetRatingsOfProduct)
	router.GET("/api/orders/:id/ratings", middleware.AuthenticateCustomer(ratings.GetRatingsOfOrder))
}

func AddVoucherRoutes(router *httprouter.Router) {
	router.GET("/api/vouchers", middleware.Authenticate(vouchers.GetVouchers))
	router.GET("/api/vouchers/:id", middleware.Authenticate(vouchers.GetVoucherByID))
	router.GET("/api/admin/vouchers", middleware.AuthenticateAdmin(vouchers.GetAllVouchers))
	router.POST("/api/vouchers", middleware.AuthenticateAdmin(vouchers.CreateVoucher))
	router.PUT("/api/vouchers/:id", middleware.AuthenticateAdmin(vouchers.UpdateVoucher))
	router.PATCH("/api/vouchers/:id/status", middleware.AuthenticateAdmin(vouchers.ChangeVoucherStatus))
	router.DELETE("/api/vouchers/:id", middleware.AuthenticateAdmin(vouchers.DeleteVoucher))
}

func AddNotificationRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/notifications", middleware.Authenticate(live.NotificationSocket(hub)))
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetAllNotificationsOfUser))
	router.GET("/api/notifications/:id", middleware.Authenticate(notifications.GetNotificationByID))
	router.POST("/api/notifications", middleware.AuthenticateAdmin(notifications.CreateNotification))
	// Bulk marks use PUT so they don't collide with the :id PATCH routes.
	router.PUT("/api/notifications/read", middleware.Authenticate(notifications.UpdateAllNotificationsIsRead))
	router.PUT("/api/notifications/seen", middleware.Authenticate(notifications.UpdateAllNotificationsIsSeen))
	router.PATCH("/api/notifications/:id/read", middleware.Authenticate(notifications.UpdateNotificationIsRead))
	router.PATCH("/api/notifications/:id/seen", middleware.Authenticate(notifications.UpdateNotificationIsSeen))
	router.DELETE("/api/notifications", middleware.Authenticate(notifications.DeleteAllNotificationsOfUser))
	router.DELETE("/api/notifications/:id", middleware.Authenticate(notifications.DeleteNotification))
}

func AddDeliveryRoutes(router *httprouter.Router) {
	router.GET("/api/deliverymethods", delivery.GetDeliveryMethods)
	router.POST("/api/deliverymethods", middleware.AuthenticateAdmin(delivery.CreateDeliveryMethod))
	router.PUT("/api/deliverymethods/:id", middleware.AuthenticateAdmin(delivery.UpdateDeliveryMethod))
	router.DELETE("/api/deliverymethods/:id", middleware.AuthenticateAdmin(delivery.DeleteDeliveryMethod))

	router.GET("/api/deliveryinfo", middleware.AuthenticateCustomer(delivery.GetDeliveryInformationOfUser))
	router.POST("/api/deliveryinfo", middleware.AuthenticateCustomer(delivery.CreateDeliveryInformation))
	router.PUT("/api/deliveryinfo/:id", middleware.AuthenticateCustomer(delivery.UpdateDeliveryInformation))
	router.PATCH("/api/deliveryinfo/:id/default", middleware.AuthenticateCustomer(delivery.SetDefaultDeliveryInformation))
	router.DELETE("/api/deliveryinfo/:id", middleware.AuthenticateCustomer(delivery.DeleteDeliveryInformation))

	router.GET("/api/linkedinfo", middleware.AuthenticateCustomer(delivery.GetLinkedInformationOfUser))
	router.POST("/api/linkedinfo", middleware.AuthenticateCustomer(delivery.CreateLinkedInformation))
	router.DELETE("/api/linkedinfo/:id", middleware.AuthenticateCustomer(delivery.DeleteLinkedInformation))
}

func AddCollectionRoutes(router *httprouter.Router) {
	router.GET("/api/gallery", middleware.AuthenticateCustomer(collections.GetGallery))
	router.GET("/api/collections/:id", middleware.AuthenticateCustomer(collections.GetCollectionByID))
	router.POST("/api/collections", middleware.AuthenticateCustomer(collections.CreateCollection))
	router.POST("/api/collections/favorite", middleware.AuthenticateCustomer(collections.AddToFavorite))
	router.POST("/api/collections/move", middleware.AuthenticateCustomer(collections.ChangeCollection))
	router.PATCH("/api/collections/:id/remove", middleware.AuthenticateCustomer(collections.RemoveFromCollection))
}

func AddUserRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(users.GetCurrentUser))
	router.PUT("/api/profile", middleware.Authenticate(users.UpdateProfile))
	router.POST("/api/profile/password/check", middleware.Authenticate(users.CheckOldPassword))
	router.PUT("/api/profile/password", middleware.Authenticate(users.ChangePassword))
	router.POST("/api/profile/avatar", middleware.Authenticate(users.UploadAvatar))

	router.GET("/api/users/:id", middleware.Authenticate(users.GetUserByID))
	router.GET("/api/admin/users", middleware.AuthenticateAdmin(users.GetAllUsers))
	router.GET("/api/admin/users/search", middleware.AuthenticateAdmin(users.SearchUsersByEmail))
	router.GET("/api/admin/users/statistics", middleware.AuthenticateAdmin(users.GetUserStatistics))
	router.PATCH("/api/users/:id/ban", middleware.AuthenticateAdmin(users.BanUser))
	router.DELETE("/api/users/:id", middleware.AuthenticateAdmin(users.DeleteUser))
}

// RoutesWrapper mounts every route group on the router.
func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, hub *live.Hub) {
	AddAuthRoutes(router, rl)
	AddCatalogRoutes(router)
	AddCartRoutes(router)
	AddOrderRoutes(router)
	AddPaymentRoutes(router)
	AddRatingRoutes(router)
	AddVoucherRoutes(router)
	AddNotificationRoutes(router, hub)
	AddDeliveryRoutes(router)
	AddCollectionRoutes(router)
	AddUserRoutes(router)
}
