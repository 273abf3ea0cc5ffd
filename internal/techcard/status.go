package techcard

import (
	"fmt"
	"net/http"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"
)

// Transition onay akışındaki bir adım.
type Transition struct {
	Name  string
	From  models.ApprovalStatus
	To    models.ApprovalStatus
	Label string
}

var (
	Submit  = Transition{Name: "submit", From: models.ApprovalDraft, To: models.ApprovalPending, Label: "onaya gönderildi"}
	Approve = Transition{Name: "approve", From: models.ApprovalPending, To: models.ApprovalApproved, Label: "onaylandı"}
	Reject  = Transition{Name: "reject", From: models.ApprovalPending, To: models.ApprovalRejected, Label: "reddedildi"}
	Reopen  = Transition{Name: "reopen", From: models.ApprovalRejected, To: models.ApprovalDraft, Label: "taslağa alındı"}
)

// Check kartın mevcut durumundan geçişe izin verilip verilmediğine bakar.
func (t Transition) Check(current models.ApprovalStatus) error {
	if current != t.From {
		return apiclient.NewError(http.StatusConflict, apiclient.CodeConflict,
			fmt.Sprintf("%s durumundaki kart için %s yapılamaz", current, t.Name))
	}
	return nil
}

// Editable taslak ve reddedilmiş kartlar düzenlenebilir.
func Editable(status models.ApprovalStatus) bool {
	return status == models.ApprovalDraft || status == models.ApprovalRejected || status == ""
}
