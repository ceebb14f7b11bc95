package adapter

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// stickyNotesABI is the subset of the sticky note contract the board uses.
const stickyNotesABI = `[
	{"type":"function","name":"createNote","stateMutability":"nonpayable",
	 "inputs":[{"name":"content","type":"string"},{"name":"x","type":"uint256"},{"name":"y","type":"uint256"},{"name":"color","type":"string"}],
	 "outputs":[]},
	{"type":"function","name":"noteCount","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getNote","stateMutability":"view",
	 "inputs":[{"name":"index","type":"uint256"}],
	 "outputs":[{"name":"content","type":"string"},{"name":"x","type":"uint256"},{"name":"y","type":"uint256"},{"name":"color","type":"string"},{"name":"author","type":"address"},{"name":"timestamp","type":"uint256"}]},
	{"type":"event","name":"NoteCreated","anonymous":false,
	 "inputs":[{"name":"index","type":"uint256","indexed":true},{"name":"author","type":"address","indexed":true}]}
]`

// chainBackend is the part of *ethclient.Client the adapter needs.
type chainBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// ChainAdapter reads and writes notes on an EVM contract. Notes are created
// with signed EIP-1559 transactions; the receipt is the transaction hash and
// is returned once the transaction is mined successfully.
type ChainAdapter struct {
	backend      chainBackend
	contract     common.Address
	abi          abi.ABI
	key          *ecdsa.PrivateKey
	from         common.Address
	pollInterval time.Duration

	logger *logger.Logger
}

// NewChainAdapter dials the RPC endpoint. The returned close func releases
// the connection.
func NewChainAdapter(ctx context.Context, cfg config.Chain, log *logger.Logger) (*ChainAdapter, func(), error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial %s: %w", ErrUnavailable, cfg.RPCURL, err)
	}

	a, err := newChainAdapter(client, cfg, log)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return a, client.Close, nil
}

func newChainAdapter(backend chainBackend, cfg config.Chain, log *logger.Logger) (*ChainAdapter, error) {
	if !common.IsHexAddress(cfg.Contract) {
		return nil, fmt.Errorf("%w: contract %q is not a hex address", ErrInvalidConfig, cfg.Contract)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %w", ErrInvalidConfig, err)
	}
	parsed, err := abi.JSON(strings.NewReader(stickyNotesABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	poll := cfg.ReceiptPollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}

	return &ChainAdapter{
		backend:      backend,
		contract:     common.HexToAddress(cfg.Contract),
		abi:          parsed,
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
		pollInterval: poll,
		logger:       log,
	}, nil
}

// Author is the checksummed address derived from the signing key.
func (c *ChainAdapter) Author() string {
	return c.from.Hex()
}

// FetchNotes implements [NoteReader]. Records carry their contract index;
// ids are derived from it by the caller.
func (c *ChainAdapter) FetchNotes(ctx context.Context) ([]models.NoteRecord, error) {
	out, err := c.call(ctx, "noteCount")
	if err != nil {
		return nil, err
	}
	count, ok := out[0].(*big.Int)
	if !ok || !count.IsInt64() {
		return nil, fmt.Errorf("%w: unexpected noteCount result", ErrUnavailable)
	}

	records := make([]models.NoteRecord, 0, count.Int64())
	for i := int64(0); i < count.Int64(); i++ {
		out, err = c.call(ctx, "getNote", big.NewInt(i))
		if err != nil {
			return nil, err
		}
		record, err := decodeNote(i, out)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// SubmitNote implements [NoteWriter]. It blocks until the transaction is
// mined or ctx ends. A reverted transaction yields [ErrRejected].
func (c *ChainAdapter) SubmitNote(ctx context.Context, draft models.NoteDraft) (models.Receipt, error) {
	x, y := math.Round(draft.X), math.Round(draft.Y)
	if x < 0 || y < 0 {
		return "", fmt.Errorf("%w: position (%g, %g) is negative; the contract stores unsigned coordinates", ErrBadRequest, draft.X, draft.Y)
	}

	data, err := c.abi.Pack("createNote",
		draft.Content,
		new(big.Int).SetUint64(uint64(x)),
		new(big.Int).SetUint64(uint64(y)),
		string(draft.Color),
	)
	if err != nil {
		return "", fmt.Errorf("%w: pack createNote: %w", ErrBadRequest, err)
	}

	tx, err := c.signTx(ctx, data)
	if err != nil {
		return "", err
	}
	if err = c.backend.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("%w: send transaction: %w", ErrRejected, err)
	}

	c.logger.Info().
		Str("func", "ChainAdapter.SubmitNote").
		Str("tx", tx.Hash().Hex()).
		Msg("transaction sent, waiting for receipt")

	receipt, err := c.waitMined(ctx, tx.Hash())
	if err != nil {
		return "", err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return "", fmt.Errorf("%w: transaction %s reverted", ErrRejected, tx.Hash().Hex())
	}
	return models.Receipt(tx.Hash().Hex()), nil
}

// Subscribe implements [ChangeNotifier] with a NoteCreated log filter.
// It needs a websocket RPC endpoint.
func (c *ChainAdapter) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	logs := make(chan types.Log, 16)
	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{c.abi.Events["NoteCreated"].ID}},
	}

	sub, err := c.backend.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe to NoteCreated: %w", ErrUnavailable, err)
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				c.logger.Warn().Err(err).Str("func", "ChainAdapter.Subscribe").Msg("log subscription ended")
				return
			case lg := <-logs:
				c.logger.Debug().
					Str("func", "ChainAdapter.Subscribe").
					Str("tx", lg.TxHash.Hex()).
					Msg("NoteCreated log received")
				select {
				case signals <- struct{}{}:
				default:
				}
			}
		}
	}()
	return signals, nil
}

func (c *ChainAdapter) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{From: c.from, To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %w", ErrUnavailable, method, err)
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", ErrUnavailable, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", ErrUnavailable, method)
	}
	return out, nil
}

func (c *ChainAdapter) signTx(ctx context.Context, data []byte) (*types.Transaction, error) {
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: chain id: %w", ErrUnavailable, err)
	}
	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %w", ErrUnavailable, err)
	}
	tip, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gas tip: %w", ErrUnavailable, err)
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: latest header: %w", ErrUnavailable, err)
	}

	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:      c.from,
		To:        &c.contract,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
	})
	if err != nil {
		// estimation runs the call, so a revert shows up here
		return nil, fmt.Errorf("%w: estimate gas: %w", ErrRejected, err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &c.contract,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

func (c *ChainAdapter) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
		default:
			c.logger.Debug().Err(err).Str("func", "ChainAdapter.waitMined").Msg("receipt lookup failed")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func decodeNote(index int64, out []any) (models.NoteRecord, error) {
	if len(out) != 6 {
		return models.NoteRecord{}, fmt.Errorf("%w: getNote returned %d values", ErrUnavailable, len(out))
	}

	content, ok1 := out[0].(string)
	x, ok2 := out[1].(*big.Int)
	y, ok3 := out[2].(*big.Int)
	color, ok4 := out[3].(string)
	author, ok5 := out[4].(common.Address)
	ts, ok6 := out[5].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return models.NoteRecord{}, fmt.Errorf("%w: unexpected getNote result types", ErrUnavailable)
	}

	fx, _ := new(big.Float).SetInt(x).Float64()
	fy, _ := new(big.Float).SetInt(y).Float64()
	record := models.NoteRecord{
		Index:   index,
		Content: content,
		X:       fx,
		Y:       fy,
		Color:   color,
		Author:  author.Hex(),
	}
	if ts.Sign() > 0 && ts.IsInt64() {
		record.Timestamp = time.Unix(ts.Int64(), 0).UTC()
	}
	return record, nil
}
