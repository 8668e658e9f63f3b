package model

// NewCoinbaseTx builds the coinbase transaction for a block: a single
// placeholder input, a reward output paying coinbasePkh, and a memo
// output committing the miner's domain.
func NewCoinbaseTx(amount uint64, coinbasePkh *Pkh, domain string) (*Tx, error) {
	input := NewTxInput([32]byte{}, 0xffffffff, Script{}, 0xffffffff)
	rewardOutput := NewTxOutput(amount, NewPkhOutputScript(coinbasePkh))
	memoOutput := NewTxOutput(0, NewMemoScript([]byte(domain)))

	tx := NewTx(HeaderVersion, []*TxInput{input}, []*TxOutput{rewardOutput, memoOutput}, 0)
	return tx, nil
}
