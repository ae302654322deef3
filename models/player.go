package models

// DefaultRating присваивается игроку, если рейтинг не передан при создании.
const DefaultRating = 1500

// Player представляет зарегистрированного шахматиста.
type Player struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Username string  `json:"username" db:"username"`
	Rating   int     `json:"rating" db:"rating"`
	Avatar   *string `json:"avatar,omitempty" db:"avatar"`
}

// PlayerUpdate содержит необязательные поля частичного обновления игрока.
// Поля со значением nil не изменяются.
type PlayerUpdate struct {
	Name     *string
	Username *string
	Rating   *int
	Avatar   *string
}

// IsEmpty сообщает, что ни одно поле не задано.
func (u PlayerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Username == nil && u.Rating == nil && u.Avatar == nil
}

// Apply переносит заданные поля в p.
func (u PlayerUpdate) Apply(p *Player) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Avatar != nil {
		if *u.Avatar == "" {
			p.Avatar = nil
		} else {
			avatar := *u.Avatar
			p.Avatar = &avatar
		}
	}
}
