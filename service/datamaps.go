package service

import (
	"collector/models"
)

// CollectionData is one reporting period's raw record lists, bulk-fetched in
// a fixed number of queries regardless of how many target rows are on the
// page.
type CollectionData struct {
	Loans               []*models.Loan
	Transactions        []*models.Transaction
	SMS                 []*models.SMS
	Marks               []*models.Mark
	Comments            []*models.Comment
	CommitteeRequests   []*models.CommitteeRequest
	Charges             []*models.Charge
	LegalStages         []*models.LoanLegalStage
	DebtorStatusHistory []*models.DebtorStatusHistory
}

// DataMaps indexes the fetched flat lists by loan id (and debtor id for
// status history) so metric computation is O(1) per lookup
type DataMaps struct {
	LoansByID            map[int64]*models.Loan
	TransactionsByLoan   map[int64][]*models.Transaction
	SMSByLoan            map[int64][]*models.SMS
	MarksByLoan          map[int64][]*models.Mark
	CommentsByLoan       map[int64][]*models.Comment
	CommitteeByLoan      map[int64][]*models.CommitteeRequest
	ChargesByLoan        map[int64][]*models.Charge
	LegalStagesByLoan    map[int64][]*models.LoanLegalStage
	StatusHistoryByDebtor map[int64][]*models.DebtorStatusHistory
}

// BuildDataMaps converts the flat record lists into indexed maps
func BuildDataMaps(data *CollectionData) *DataMaps {
	maps := &DataMaps{
		LoansByID:             make(map[int64]*models.Loan, len(data.Loans)),
		TransactionsByLoan:    make(map[int64][]*models.Transaction),
		SMSByLoan:             make(map[int64][]*models.SMS),
		MarksByLoan:           make(map[int64][]*models.Mark),
		CommentsByLoan:        make(map[int64][]*models.Comment),
		CommitteeByLoan:       make(map[int64][]*models.CommitteeRequest),
		ChargesByLoan:         make(map[int64][]*models.Charge),
		LegalStagesByLoan:     make(map[int64][]*models.LoanLegalStage),
		StatusHistoryByDebtor: make(map[int64][]*models.DebtorStatusHistory),
	}

	for _, loan := range data.Loans {
		maps.LoansByID[loan.ID] = loan
	}
	for _, txn := range data.Transactions {
		maps.TransactionsByLoan[txn.LoanID] = append(maps.TransactionsByLoan[txn.LoanID], txn)
	}
	for _, sms := range data.SMS {
		maps.SMSByLoan[sms.LoanID] = append(maps.SMSByLoan[sms.LoanID], sms)
	}
	for _, mark := range data.Marks {
		maps.MarksByLoan[mark.LoanID] = append(maps.MarksByLoan[mark.LoanID], mark)
	}
	for _, comment := range data.Comments {
		maps.CommentsByLoan[comment.LoanID] = append(maps.CommentsByLoan[comment.LoanID], comment)
	}
	for _, req := range data.CommitteeRequests {
		maps.CommitteeByLoan[req.LoanID] = append(maps.CommitteeByLoan[req.LoanID], req)
	}
	for _, charge := range data.Charges {
		maps.ChargesByLoan[charge.LoanID] = append(maps.ChargesByLoan[charge.LoanID], charge)
	}
	for _, stage := range data.LegalStages {
		maps.LegalStagesByLoan[stage.LoanID] = append(maps.LegalStagesByLoan[stage.LoanID], stage)
	}
	for _, history := range data.DebtorStatusHistory {
		maps.StatusHistoryByDebtor[history.DebtorID] = append(maps.StatusHistoryByDebtor[history.DebtorID], history)
	}

	return maps
}
