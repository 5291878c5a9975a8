package dto

type DashboardResponse struct {
	OrderCounts          map[string]int    `json:"orderCounts"`
	AwaitingConfirmation []OrderResponse   `json:"awaitingConfirmation"`
	UnreadNotifications  int               `json:"unreadNotifications"`
	ActiveEMIPlans       []EMIPlanResponse `json:"activeEmiPlans"`
	RecentOrders         []OrderResponse   `json:"recentOrders"`
}
