package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creditrust/core"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// ReceiptFetcher the node calls WaitMined needs
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Policy receipt polling policy
type Policy struct {
	// first delay between polls, doubled up to MaxInterval
	Interval    time.Duration
	MaxInterval time.Duration
	MaxPolls    int
	// blocks on top of the receipt block, 0 and 1 both mean mined
	Confirmations uint64
}

// DefaultPolicy ~30 polls starting at one second
func DefaultPolicy() Policy {
	return Policy{
		Interval:    time.Second,
		MaxInterval: 8 * time.Second,
		MaxPolls:    30,
	}
}

var pollCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "creditrust",
	Subsystem: "chain",
	Name:      "receipt_polls_total",
	Help:      "receipt polls by outcome",
}, []string{"outcome"})

func init() {
	prometheus.MustRegister(pollCounter)
}

func (p Policy) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = p.MaxInterval
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	polls := p.MaxPolls
	if polls < 1 {
		polls = 1
	}

	// the first poll is not a retry
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(polls-1)), ctx)
}

var errPending = errors.New("receipt pending")

// WaitMined poll until hash is mined (and confirmed) or the policy gives up.
// A mined but failed transaction returns core.ErrTransactionReverted.
func WaitMined(ctx context.Context, node ReceiptFetcher, hash common.Hash, policy Policy) (*types.Receipt, error) {
	log := logger.FromContext(ctx).WithField("tx", hash.Hex())

	var receipt *types.Receipt
	op := func() error {
		r, err := node.TransactionReceipt(ctx, hash)
		if err != nil {
			if !errors.Is(err, ethereum.NotFound) {
				log.WithError(err).Debugln("TransactionReceipt")
				pollCounter.WithLabelValues("error").Inc()
			} else {
				pollCounter.WithLabelValues("pending").Inc()
			}
			return errPending
		}

		if r.Status != types.ReceiptStatusSuccessful {
			pollCounter.WithLabelValues("reverted").Inc()
			return backoff.Permanent(fmt.Errorf("%w: %s in block %d", core.ErrTransactionReverted, hash.Hex(), r.BlockNumber.Uint64()))
		}

		if policy.Confirmations > 1 {
			head, err := node.BlockNumber(ctx)
			if err != nil {
				return errPending
			}

			if head < r.BlockNumber.Uint64() || head-r.BlockNumber.Uint64()+1 < policy.Confirmations {
				pollCounter.WithLabelValues("confirming").Inc()
				return errPending
			}
		}

		pollCounter.WithLabelValues("mined").Inc()
		receipt = r
		return nil
	}

	if err := backoff.Retry(op, policy.backoff(ctx)); err != nil {
		if errors.Is(err, errPending) {
			log.Infoln("receipt not observed after", policy.MaxPolls, "polls")
			return nil, fmt.Errorf("%w: %s", core.ErrConfirmationTimeout, hash.Hex())
		}

		return nil, err
	}

	return receipt, nil
}
