package response

import "github.com/mcoot/bvzombies/internal/model"

// Success messages, as the API has always sent them
const (
	MsgRegistered     = "Usuario registrado correctamente."
	MsgLoggedIn       = "Login exitoso."
	MsgProfile        = "Perfil obtenido correctamente."
	MsgProfileUpdated = "Perfil actualizado correctamente."
	MsgGameAccess     = "Acceso al juego autorizado."
	MsgStats          = "Estadísticas obtenidas correctamente"
	MsgStatsUpdated   = "Estadísticas actualizadas correctamente"
)

// StatsUpdate echoes the statistics a client posted
type StatsUpdate struct {
	Msg   string         `json:"msg"`
	Stats map[string]any `json:"stats"`
}

// Registered builds the /register response
func Registered(u *model.User) model.AuthEnvelope {
	return model.AuthEnvelope{Msg: MsgRegistered, User: u}
}

// LoggedIn builds the /login response
func LoggedIn(token string, u *model.User) model.AuthEnvelope {
	return model.AuthEnvelope{Msg: MsgLoggedIn, Token: token, User: u}
}

// Profile builds the /profile response
func Profile(msg string, u *model.User) model.UserEnvelope {
	return model.UserEnvelope{Msg: msg, User: u}
}

// Game builds the /game response
func Game(u *model.User, data model.GameData) model.GameEnvelope {
	return model.GameEnvelope{Msg: MsgGameAccess, User: u, GameData: &data}
}

// Stats builds the /stats/{id} response
func Stats(stats model.GameStats) model.StatsEnvelope {
	return model.StatsEnvelope{Msg: MsgStats, Stats: stats}
}

// EmptyList is returned by listings that have nothing recorded yet
func EmptyList() model.ListEnvelope {
	return model.ListEnvelope{Items: []map[string]any{}}
}
