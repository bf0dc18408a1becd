package service

import (
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/rpc"
)

func billFromMessage(id, title, groupID string, items []rpc.Item, participants []rpc.Participant) *models.Bill {
	bill := &models.Bill{
		ID:           id,
		Title:        title,
		GroupID:      groupID,
		Items:        make([]models.Item, len(items)),
		Participants: make([]models.Participant, len(participants)),
	}
	for i, item := range items {
		bill.Items[i] = models.Item{
			Description: item.Description,
			Amount:      item.Amount,
			Shares:      item.Shares,
		}
	}
	for i, p := range participants {
		bill.Participants[i] = models.Participant{ID: p.ID, Name: p.Name, IsPayer: p.IsPayer}
	}
	return bill
}

func toBillMessage(bill *models.Bill) *rpc.Bill {
	msg := &rpc.Bill{
		ID:           bill.ID,
		Title:        bill.Title,
		GroupID:      bill.GroupID,
		Items:        make([]rpc.Item, len(bill.Items)),
		Participants: make([]rpc.Participant, len(bill.Participants)),
		Total:        bill.Total(),
		CreatedAt:    bill.CreatedAt,
	}
	for i, item := range bill.Items {
		msg.Items[i] = rpc.Item{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount,
			Shares:      item.Shares,
		}
	}
	for i, p := range bill.Participants {
		msg.Participants[i] = rpc.Participant{ID: p.ID, Name: p.Name, IsPayer: p.IsPayer}
	}
	return msg
}

func toBillSummary(bill *models.Bill) rpc.BillSummary {
	return rpc.BillSummary{
		ID:               bill.ID,
		Title:            bill.Title,
		Total:            bill.Total(),
		PayerID:          bill.PayerID(),
		ParticipantCount: len(bill.Participants),
		CreatedAt:        bill.CreatedAt,
	}
}

func toSettlementMessage(s *models.Settlement) *rpc.Settlement {
	return &rpc.Settlement{
		ID:        s.ID,
		BillID:    s.BillID,
		GroupID:   s.GroupID,
		FromID:    s.FromID,
		ToID:      s.ToID,
		Amount:    s.Amount,
		CreatedAt: s.CreatedAt,
		CreatedBy: s.CreatedBy,
		Note:      s.Note,
	}
}

func toGroupMessage(g *models.Group) *rpc.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &rpc.Group{ID: g.ID, Name: g.Name, Members: members, CreatedAt: g.CreatedAt}
}
