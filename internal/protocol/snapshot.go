package protocol

// SNAPSHOT (server -> client), sent after every tick. Slow clients only see the latest one.
type Snapshot struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	Money        int64          `json:"money"`
	BusinessOpen bool           `json:"business_open"`
	Inventory    []SlotView     `json:"inventory"`
	Cooking      CookingView    `json:"cooking"`
	Unlocked     []string       `json:"unlocked_recipes"`
	Shop         []ShopView     `json:"shop"`
	Queue        []string       `json:"queue"`
	Customers    []CustomerView `json:"customers"`

	// Results for commands this session sent since the previous snapshot.
	Results []ResultMsg `json:"results,omitempty"`
}

type SlotView struct {
	Index    int    `json:"index"`
	Item     string `json:"item,omitempty"`
	Name     string `json:"name,omitempty"`
	Count    int    `json:"count"`
	MaxStack int    `json:"max_stack,omitempty"`
}

type CookingView struct {
	Cooking     bool    `json:"cooking"`
	RecipeID    string  `json:"recipe_id,omitempty"`
	RecipeName  string  `json:"recipe_name,omitempty"`
	TotalMS     int64   `json:"total_ms,omitempty"`
	RemainingMS int64   `json:"remaining_ms,omitempty"`
	Progress    float64 `json:"progress"`
}

type ShopView struct {
	RecipeID   string `json:"recipe_id"`
	Price      int64  `json:"price"`
	Unlocked   bool   `json:"unlocked"`
	Affordable bool   `json:"affordable"`
}

type CustomerView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Pos         [3]float64 `json:"pos"`
	InQueue     bool       `json:"in_queue"`
	QueueIndex  int        `json:"queue_index"`
	OrderItem   string     `json:"order_item,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	OrderState  string     `json:"order_state"`
	TimeRatio   float64    `json:"time_ratio"`
	RemainingMS int64      `json:"remaining_ms"`
}
