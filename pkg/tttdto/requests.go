package tttdto

type NewGameRequest struct {
	Bot       AgentKind
	HumanAs   Mark
	RemoteURL string
}

type MoveRequest struct {
	GameID string `json:"game_id"`
	Pos    int    `json:"pos"`
}

type SetEpsilonRequest struct {
	Epsilon float64 `json:"epsilon"`
}

type TrainRequest struct {
	Episodes int     `json:"episodes"`
	Mode     string  `json:"mode"`
	Epsilon  float64 `json:"epsilon"`
}

type ArenaRequest struct {
	X         AgentKind `json:"x"`
	O         AgentKind `json:"o"`
	Games     int       `json:"games"`
	RemoteURL string    `json:"remote_url"`
}
