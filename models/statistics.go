package models

// TimeControlCounts содержит число партий по каждому контролю времени.
type TimeControlCounts struct {
	Bullet    int `json:"bullet"`
	Blitz     int `json:"blitz"`
	Rapid     int `json:"rapid"`
	Classical int `json:"classical"`
}

// ColorCounts содержит число партий белыми и чёрными.
type ColorCounts struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// GameStatistics вычисляется по партиям игрока при запросе и не хранится.
type GameStatistics struct {
	TotalGames         int               `json:"totalGames"`
	Wins               int               `json:"wins"`
	Losses             int               `json:"losses"`
	Draws              int               `json:"draws"`
	WinRate            float64           `json:"winRate"`
	AverageRating      int               `json:"averageRating"`
	RatingChange       int               `json:"ratingChange"`
	GamesByTimeControl TimeControlCounts `json:"gamesByTimeControl"`
	GamesByColor       ColorCounts       `json:"gamesByColor"`
	RecentGames        []Game            `json:"recentGames"`
}

// PlayerSummary содержит краткую статистику игрока для общего списка.
type PlayerSummary struct {
	TotalGames    int     `json:"totalGames"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinRate       float64 `json:"winRate"`
	CurrentRating int     `json:"currentRating"`
	LastGameDate  *string `json:"lastGameDate,omitempty"`
}

// PlayerWithStats дополняет Player краткой статистикой в поле "stats".
type PlayerWithStats struct {
	Player
	Stats PlayerSummary `json:"stats"`
}
