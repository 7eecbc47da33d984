package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	TickRateHz      int            `json:"tick_rate_hz"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type CatalogDigests struct {
	Items   string `json:"items"`
	Recipes string `json:"recipes"`
	Shop    string `json:"shop"`
}

// Driver commands.
const (
	CmdOpenBusiness   = "OPEN_BUSINESS"
	CmdCloseBusiness  = "CLOSE_BUSINESS"
	CmdToggleBusiness = "TOGGLE_BUSINESS"
	CmdCook           = "COOK"
	CmdServe          = "SERVE"
	CmdBuyRecipe      = "BUY_RECIPE"
	CmdSpawnCustomer  = "SPAWN_CUSTOMER"
	CmdRestock        = "RESTOCK"
)

// COMMAND (client -> server). Which fields apply depends on Cmd.
type CommandMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ID              string     `json:"id"`
	Cmd             string     `json:"cmd"`
	RecipeID        string     `json:"recipe_id,omitempty"`
	CustomerID      string     `json:"customer_id,omitempty"`
	ItemID          string     `json:"item_id,omitempty"`
	Count           int        `json:"count,omitempty"`
	Name            string     `json:"name,omitempty"`
	Home            [3]float64 `json:"home,omitempty"`
}

// RESULT (server -> client), one per COMMAND.
type ResultMsg struct {
	Type       string       `json:"type"`
	ID         string       `json:"id"`
	Cmd        string       `json:"cmd"`
	Tick       uint64       `json:"tick"`
	OK         bool         `json:"ok"`
	Code       string       `json:"code,omitempty"`
	Message    string       `json:"message,omitempty"`
	Receipt    *ReceiptView `json:"receipt,omitempty"`
	Added      int          `json:"added,omitempty"`
	CustomerID string       `json:"customer_id,omitempty"`
}

type ReceiptView struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
	Balance   int64  `json:"balance"`
}
