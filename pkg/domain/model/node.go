// 指示: miu200521358
// Package model はシーングラフとスケルトンのドメインモデルを提供する。
package model

import (
	"strings"

	"github.com/miu200521358/mu_metamagic/pkg/domain/mmath"
	"golang.org/x/text/unicode/norm"
)

// NodeKind はシーンノードの種別を表す。
type NodeKind string

const (
	// NODE_KIND_GENERIC は付加情報を持たない汎用ノードを表す。
	NODE_KIND_GENERIC NodeKind = "generic"
	// NODE_KIND_SKELETAL はスケルトンを保持するノードを表す。
	NODE_KIND_SKELETAL NodeKind = "skeletal"
	// NODE_KIND_SPATIAL は空間配置されるノードを表す。
	NODE_KIND_SPATIAL NodeKind = "spatial"
)

// Node はシーングラフの1ノードを表す。
type Node struct {
	name string
	Kind NodeKind

	Translation mmath.Vec3
	Rotation    mmath.Quaternion
	Scale       mmath.Vec3

	// Metadata はノード単位のメタデータ(glTF extras由来)を保持する。
	Metadata map[string]string

	// Skeleton は NODE_KIND_SKELETAL のときのみ設定される。
	Skeleton *Skeleton
	// Rig は生成済みシミュレーションリグノードのときのみ設定される。
	Rig *SimulationRig
	// Anchor は生成済みボーン追従アンカーノードのときのみ設定される。
	Anchor *AttachmentAnchor

	parent   *Node
	children []*Node
}

// NewNode はノードを生成する。
func NewNode(name string, kind NodeKind) *Node {
	return &Node{
		name:        name,
		Kind:        kind,
		Translation: mmath.ZERO_VEC3,
		Rotation:    mmath.NewQuaternion(),
		Scale:       mmath.ONE_VEC3,
		Metadata:    map[string]string{},
	}
}

// Name はノード名を返す。
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// SetName はノード名を設定する。
func (n *Node) SetName(name string) {
	if n == nil {
		return
	}
	n.name = name
}

// Parent は親ノードを返す。
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children は子ノード一覧を親子登録順で返す。
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// AddChild は子ノードを末尾へ追加する。既存の親からは切り離す。
func (n *Node) AddChild(child *Node) {
	if n == nil || child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// IsAncestorOf は自身が対象ノードの祖先(自身を含む)であるか判定する。
func (n *Node) IsAncestorOf(node *Node) bool {
	if n == nil {
		return false
	}
	for current := node; current != nil; current = current.parent {
		if current == n {
			return true
		}
	}
	return false
}

// removeChild は子ノード一覧から対象を取り除く。
func (n *Node) removeChild(child *Node) {
	for i, current := range n.children {
		if current == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// DepthFirst は自身を含む部分木を行きがけ順で返す。
// 返却スライスは走査時点のスナップショットであり、反復中の再親付けの影響を受けない。
func (n *Node) DepthFirst() []*Node {
	if n == nil {
		return nil
	}
	nodes := make([]*Node, 0, len(n.children)+1)
	stack := []*Node{n}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes = append(nodes, current)
		for i := len(current.children) - 1; i >= 0; i-- {
			stack = append(stack, current.children[i])
		}
	}
	return nodes
}

// FindByKind は部分木から指定種別のノードを行きがけ順で収集する。
func (n *Node) FindByKind(kind NodeKind) []*Node {
	matches := []*Node{}
	for _, node := range n.DepthFirst() {
		if node.Kind == kind {
			matches = append(matches, node)
		}
	}
	return matches
}

// LocalMatrix はローカル変換行列(T*R*S)を返す。
func (n *Node) LocalMatrix() mmath.Mat4 {
	if n == nil {
		return mmath.NewMat4()
	}
	return n.Translation.ToMat4().Muled(n.Rotation.ToMat4()).Muled(n.Scale.ToScaleMat4())
}

// WorldMatrix は先祖のローカル変換を合成したワールド行列を返す。
func (n *Node) WorldMatrix() mmath.Mat4 {
	if n == nil {
		return mmath.NewMat4()
	}
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Muled(n.LocalMatrix())
}

// WorldPosition はワールド座標を返す。
func (n *Node) WorldPosition() mmath.Vec3 {
	return n.WorldMatrix().Translation()
}

// NormalizeName は名前照合用にNFC正規化と前後空白除去を適用する。
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
