package models

// GameResult задаёт исход партии с точки зрения Game.PlayerID.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// Opposite возвращает исход с точки зрения соперника.
func (r GameResult) Opposite() GameResult {
	switch r {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return r
	}
}

// Color задаёт цвет фигур, которыми играл Game.PlayerID.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// TimeControl задаёт контроль времени партии.
type TimeControl string

const (
	TimeControlBullet    TimeControl = "bullet"
	TimeControlBlitz     TimeControl = "blitz"
	TimeControlRapid     TimeControl = "rapid"
	TimeControlClassical TimeControl = "classical"
)

// TimeControls перечисляет поддерживаемые контроли времени в порядке отображения.
var TimeControls = []TimeControl{TimeControlBullet, TimeControlBlitz, TimeControlRapid, TimeControlClassical}

// DateLayout задаёт формат Game.Date в БД и в API.
const DateLayout = "2006-01-02"

// GameRating хранит рейтинг до и после партии и его изменение.
// Равенство After == Before + Change ожидается, но не проверяется.
type GameRating struct {
	Before int `json:"before"`
	After  int `json:"after"`
	Change int `json:"change"`
}

// Game описывает партию с точки зрения одного игрока. Реальная партия двух
// игроков хранится двумя зеркальными записями.
type Game struct {
	ID          string      `json:"id" db:"id"`
	Date        string      `json:"date" db:"date"`
	PlayerID    string      `json:"playerId" db:"player_id"`
	OpponentID  string      `json:"opponentId" db:"opponent_id"`
	Result      GameResult  `json:"result" db:"result"`
	Color       Color       `json:"color" db:"color"`
	TimeControl TimeControl `json:"timeControl" db:"time_control"`
	Moves       int         `json:"moves" db:"moves"`
	Rating      GameRating  `json:"rating" db:"-"`
	Opening     *string     `json:"opening,omitempty" db:"opening"`
	Notes       *string     `json:"notes,omitempty" db:"notes"`
}

// GameUpdate содержит необязательные поля частичного обновления партии.
// Rating записывается целиком, все три значения меняются вместе.
type GameUpdate struct {
	Date        *string
	PlayerID    *string
	OpponentID  *string
	Result      *GameResult
	Color       *Color
	TimeControl *TimeControl
	Moves       *int
	Rating      *GameRating
	Opening     *string
	Notes       *string
}

func (u GameUpdate) IsEmpty() bool {
	return u.Date == nil && u.PlayerID == nil && u.OpponentID == nil && u.Result == nil &&
		u.Color == nil && u.TimeControl == nil && u.Moves == nil && u.Rating == nil &&
		u.Opening == nil && u.Notes == nil
}

// GameFilter сужает выборку партий. Нулевое значение означает все партии.
type GameFilter struct {
	PlayerID string
}
