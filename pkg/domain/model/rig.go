// 指示: miu200521358
package model

// ChainSlot は揺れ骨チェーン1本分の設定スロットを表す。
// スロット位置は有効チェーンの出現順で確定する。
type ChainSlot struct {
	StartBoneIndex int
	EndBoneIndex   int

	Stiffness     float64
	Drag          float64
	Gravity       float64
	Radius        float64
	ExtendEndBone bool
}

// SimulationRig はスケルトン配下に生成する揺れ骨リグを表す。
type SimulationRig struct {
	Slots []ChainSlot
}

// NewSimulationRig はスロット空のリグを生成する。
func NewSimulationRig() *SimulationRig {
	return &SimulationRig{Slots: []ChainSlot{}}
}

// AppendSlot はスロットを末尾へ追加し、割り当てたスロットindexを返す。
func (r *SimulationRig) AppendSlot(slot ChainSlot) int {
	if r == nil {
		return -1
	}
	r.Slots = append(r.Slots, slot)
	return len(r.Slots) - 1
}
