package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// NetworkState はひとつのエネルギーモデル（RBM）の名前付きパラメータの
// スナップショットを表す。重み行列は行優先の平坦な配列として保持する。
type NetworkState struct {
	// NumVisible は可視ユニット数（= VisibleBiasの長さ）
	NumVisible int

	// NumHidden は隠れユニット数（= HiddenBiasの長さ）
	NumHidden int

	// Weights は結合重み（NumHidden行 × NumVisible列、行優先）
	Weights []float64

	// VisibleBias は可視バイアス
	VisibleBias []float64

	// HiddenBias は隠れバイアス
	HiddenBias []float64
}

// Validate はNetworkStateの内部整合性を検証する
func (ns *NetworkState) Validate(name string) error {
	if len(ns.VisibleBias) != ns.NumVisible {
		return errors.NewCheckpointError("NetworkState.Validate", name,
			"visible_bias length does not match num_visible", nil)
	}
	if len(ns.HiddenBias) != ns.NumHidden {
		return errors.NewCheckpointError("NetworkState.Validate", name,
			"hidden_bias length does not match num_hidden", nil)
	}
	if len(ns.Weights) != ns.NumVisible*ns.NumHidden {
		return errors.NewCheckpointError("NetworkState.Validate", name,
			"weights length does not match num_visible*num_hidden", nil)
	}
	return nil
}

// Checkpoint は波動関数モデルの永続化形式。
// ネットワーク名（例: "rbm_am"）をキーとするパラメータ辞書を保持する。
type Checkpoint struct {
	Networks map[string]NetworkState
}

// Network は指定された名前のNetworkStateを取り出す。
// キーが存在しない場合はCheckpointErrorを返す。
func (cp *Checkpoint) Network(name string) (NetworkState, error) {
	ns, ok := cp.Networks[name]
	if !ok {
		return NetworkState{}, errors.NewCheckpointError("Checkpoint.Network", name,
			"network key not found", nil)
	}
	if err := ns.Validate(name); err != nil {
		return NetworkState{}, err
	}
	return ns, nil
}

// SaveCheckpoint はチェックポイントをファイルに保存する
//
// 使用例:
//
//	cp := wvfn.Checkpoint()
//	err := model.SaveCheckpoint(cp, "wvfn.gob")
func SaveCheckpoint(cp *Checkpoint, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.NewCheckpointError("SaveCheckpoint", filename, "failed to create file", err)
	}
	defer file.Close()

	return SaveCheckpointToWriter(cp, file)
}

// LoadCheckpoint はファイルからチェックポイントを読み込む
func LoadCheckpoint(filename string) (*Checkpoint, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewCheckpointError("LoadCheckpoint", filename, "failed to open file", err)
	}
	defer file.Close()

	cp, err := LoadCheckpointFromReader(file)
	if err != nil {
		return nil, errors.NewCheckpointError("LoadCheckpoint", filename, "failed to decode", err)
	}
	return cp, nil
}

// SaveCheckpointToWriter はチェックポイントをio.Writerに保存する
func SaveCheckpointToWriter(cp *Checkpoint, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(cp); err != nil {
		return errors.NewCheckpointError("SaveCheckpointToWriter", "", "failed to encode checkpoint", err)
	}
	return nil
}

// LoadCheckpointFromReader はio.Readerからチェックポイントを読み込む
func LoadCheckpointFromReader(r io.Reader) (*Checkpoint, error) {
	var cp Checkpoint
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(&cp); err != nil {
		return nil, errors.Wrap(err, "failed to decode checkpoint")
	}
	return &cp, nil
}
