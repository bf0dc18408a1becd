package rpc

import "github.com/mmynk/settleup/internal/money"

// Participant is a person on a bill.
type Participant struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	IsPayer bool   `json:"is_payer"`
}

// Item is a priced bill line. A null Shares splits the amount evenly across all
// participants; an object assigns it explicitly.
type Item struct {
	ID          string                 `json:"id,omitempty"`
	Description string                 `json:"description"`
	Amount      money.Money            `json:"amount"`
	Shares      map[string]money.Money `json:"shares"`
}

type Balance struct {
	ParticipantID string      `json:"participant_id"`
	Owed          money.Money `json:"owed"`
	Paid          money.Money `json:"paid"`
	Net           money.Money `json:"net"`
}

type Transfer struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Money `json:"amount"`
}

type Bill struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	GroupID      string        `json:"group_id,omitempty"`
	GroupName    string        `json:"group_name,omitempty"`
	Items        []Item        `json:"items"`
	Participants []Participant `json:"participants"`
	Total        money.Money   `json:"total"`
	CreatedAt    int64         `json:"created_at"`
}

type BillSummary struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Total            money.Money `json:"total"`
	PayerID          string      `json:"payer_id"`
	ParticipantCount int         `json:"participant_count"`
	CreatedAt        int64       `json:"created_at"`
}

type Settlement struct {
	ID        string      `json:"id"`
	BillID    string      `json:"bill_id,omitempty"`
	GroupID   string      `json:"group_id,omitempty"`
	FromID    string      `json:"from_id"`
	ToID      string      `json:"to_id"`
	Amount    money.Money `json:"amount"`
	CreatedAt int64       `json:"created_at"`
	CreatedBy string      `json:"created_by"`
	Note      string      `json:"note,omitempty"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// BillService messages.

type CalculateRequest struct {
	Items        []Item        `json:"items"`
	Participants []Participant `json:"participants"`
}

// CalculateResponse carries per-participant balances and the settle-up plan.
type CalculateResponse struct {
	Total       money.Money `json:"total"`
	Balances    []Balance   `json:"balances"`
	Settlements []Transfer  `json:"settlements"`
}

type CreateBillRequest struct {
	Title        string        `json:"title,omitempty"`
	GroupID      string        `json:"group_id,omitempty"`
	Items        []Item        `json:"items"`
	Participants []Participant `json:"participants"`
}

type CreateBillResponse struct {
	BillID string             `json:"bill_id"`
	Result *CalculateResponse `json:"result"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill   *Bill              `json:"bill"`
	Result *CalculateResponse `json:"result"`
}

type UpdateBillRequest struct {
	BillID       string        `json:"bill_id"`
	Title        string        `json:"title,omitempty"`
	GroupID      string        `json:"group_id,omitempty"`
	Items        []Item        `json:"items"`
	Participants []Participant `json:"participants"`
}

type UpdateBillResponse struct {
	BillID string             `json:"bill_id"`
	Result *CalculateResponse `json:"result"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

type ListBillsByGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListBillsByGroupResponse struct {
	Bills []BillSummary `json:"bills"`
}

// CalculateBillRequest asks for the settle-up plan of a stored bill. With
// ApplyRecorded set, settlements already recorded against the bill are
// deducted first.
type CalculateBillRequest struct {
	BillID        string `json:"bill_id"`
	ApplyRecorded bool   `json:"apply_recorded,omitempty"`
}

// RecordSettlementRequest records a payment against exactly one of a bill or a group.
type RecordSettlementRequest struct {
	BillID  string      `json:"bill_id,omitempty"`
	GroupID string      `json:"group_id,omitempty"`
	FromID  string      `json:"from_id"`
	ToID    string      `json:"to_id"`
	Amount  money.Money `json:"amount"`
	Note    string      `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	BillID  string `json:"bill_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

// GroupService messages.

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// UpdateGroupRequest renames a group and replaces its member list.
type UpdateGroupRequest struct {
	GroupID string   `json:"group_id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMembersRequest struct {
	GroupID string   `json:"group_id"`
	Members []string `json:"members"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// GetGroupBalancesResponse has the group's net balances after recorded
// payments and the transfers that settle them.
type GetGroupBalancesResponse struct {
	Balances    []Balance  `json:"balances"`
	Settlements []Transfer `json:"settlements"`
}
