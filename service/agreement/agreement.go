package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creditrust/core"
	"creditrust/internal/cid"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
)

type service struct {
	agreements core.AgreementStore
	pinner     core.Pinner
	clock      func() time.Time
}

// New new agreement service, pinner may be nil
func New(agreements core.AgreementStore, pinner core.Pinner) core.AgreementService {
	return &service{
		agreements: agreements,
		pinner:     pinner,
		clock:      time.Now,
	}
}

func (s *service) Put(ctx context.Context, agreement *core.LoanAgreement) (*core.Agreement, error) {
	if !common.IsHexAddress(agreement.Borrower) {
		return nil, fmt.Errorf("%w: borrower", core.ErrInvalidArgument)
	}

	if agreement.Lender != "" && !common.IsHexAddress(agreement.Lender) {
		return nil, fmt.Errorf("%w: lender", core.ErrInvalidArgument)
	}

	if agreement.CreatedAt == 0 {
		agreement.CreatedAt = s.clock().Unix()
	}

	content, err := Canonical(agreement)
	if err != nil {
		return nil, err
	}

	record := &core.Agreement{
		CID:      cid.Sum(content),
		Borrower: common.HexToAddress(agreement.Borrower).Hex(),
		Content:  content,
	}

	if err := s.agreements.Create(ctx, record); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("cid", record.CID)

	if s.pinner != nil && record.PinnedCID == "" {
		pinned, err := s.pinner.PinJSON(ctx, "agreement-"+record.CID, content)
		if err != nil {
			// the local copy is authoritative, pinning can be retried
			log.WithError(err).Warnln("pin agreement")
			return record, nil
		}

		if pinned != record.CID {
			log.Infoln("pinning service returned", pinned)
		}

		if err := s.agreements.UpdatePin(ctx, record.CID, pinned); err != nil {
			return nil, err
		}
		record.PinnedCID = pinned
	}

	return record, nil
}

func (s *service) Get(ctx context.Context, id string) (*core.LoanAgreement, error) {
	if _, err := cid.Digest(id); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
	}

	record, err := s.agreements.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !cid.Verify(id, record.Content) {
		return nil, fmt.Errorf("%w: %s", core.ErrAgreementMismatch, id)
	}

	var agreement core.LoanAgreement
	if err := json.Unmarshal(record.Content, &agreement); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrAgreementMismatch, err.Error())
	}

	return &agreement, nil
}
