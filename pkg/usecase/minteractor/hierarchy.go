// 指示: miu200521358
package minteractor

import (
	"fmt"
	"sort"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
)

const minimumChainSelectionCount = 2

// BoneChainAnalysis はボーン選択からのチェーン解析結果を表す。
type BoneChainAnalysis struct {
	// Ordering は上位から下位へのボーン名順列。分岐検出時は分岐ボーンで打ち切る。
	Ordering []string
	// Branched は選択内に分岐が存在したか。
	Branched bool
	// BranchBoneName は分岐を検出したボーン名。
	BranchBoneName string
	// ExcludedBoneNames は選択されたがチェーンに含まれなかったボーン名(名前順)。
	ExcludedBoneNames []string
}

// AnalyzeBoneChain は選択ボーン集合から一意な線形順列を解析する。
// 選択の現在状態のみに依存する純関数で、スケルトンを変更しない。
func AnalyzeBoneChain(skeleton *model.Skeleton, selectedBoneNames []string) (*BoneChainAnalysis, error) {
	if skeleton == nil {
		return nil, fmt.Errorf("スケルトンが未指定です")
	}
	if len(selectedBoneNames) < minimumChainSelectionCount {
		return nil, fmt.Errorf("ボーンを%d個以上選択してください", minimumChainSelectionCount)
	}

	selectedIndexes := map[int]struct{}{}
	for _, name := range selectedBoneNames {
		index, exists := skeleton.BoneIndexByName(name)
		if !exists {
			return nil, fmt.Errorf("選択ボーンが見つかりません: %s", name)
		}
		selectedIndexes[index] = struct{}{}
	}
	if len(selectedIndexes) < minimumChainSelectionCount {
		return nil, fmt.Errorf("ボーンを%d個以上選択してください", minimumChainSelectionCount)
	}

	topIndex, exists := findTopmostSelectedBone(skeleton, selectedIndexes)
	if !exists {
		return nil, fmt.Errorf("ボーン階層を特定できません。親子関係を確認してください")
	}

	analysis := &BoneChainAnalysis{Ordering: []string{}}
	chainIndexes := map[int]struct{}{}
	currentIndex := topIndex
	for {
		bone, err := skeleton.Get(currentIndex)
		if err != nil {
			return nil, err
		}
		analysis.Ordering = append(analysis.Ordering, bone.Name())
		chainIndexes[currentIndex] = struct{}{}

		selectedChildren := collectSelectedChildIndexes(skeleton, currentIndex, selectedIndexes)
		if len(selectedChildren) == 0 {
			break
		}
		if len(selectedChildren) > 1 {
			// 分岐は最初に見つかった線形経路だけを返し、分岐ボーンで打ち切る。
			analysis.Branched = true
			analysis.BranchBoneName = bone.Name()
			break
		}
		currentIndex = selectedChildren[0]
	}

	for index := range selectedIndexes {
		if _, inChain := chainIndexes[index]; inChain {
			continue
		}
		if bone, err := skeleton.Get(index); err == nil {
			analysis.ExcludedBoneNames = append(analysis.ExcludedBoneNames, bone.Name())
		}
	}
	sort.Strings(analysis.ExcludedBoneNames)

	return analysis, nil
}

// findTopmostSelectedBone は選択内で先祖に選択ボーンを持たないボーンを返す。
func findTopmostSelectedBone(skeleton *model.Skeleton, selectedIndexes map[int]struct{}) (int, bool) {
	// map走査順へ依存しないよう、index昇順で判定する。
	orderedIndexes := make([]int, 0, len(selectedIndexes))
	for index := range selectedIndexes {
		orderedIndexes = append(orderedIndexes, index)
	}
	sort.Ints(orderedIndexes)

	for _, index := range orderedIndexes {
		isTopmost := true
		currentIndex := index
		for depth := 0; depth <= skeleton.Len(); depth++ {
			bone, err := skeleton.Get(currentIndex)
			if err != nil || bone.ParentIndex < 0 {
				break
			}
			if _, selected := selectedIndexes[bone.ParentIndex]; selected {
				isTopmost = false
				break
			}
			currentIndex = bone.ParentIndex
		}
		if isTopmost {
			return index, true
		}
	}
	return -1, false
}

// collectSelectedChildIndexes は選択内の子ボーンindexをネイティブ子順で返す。
func collectSelectedChildIndexes(skeleton *model.Skeleton, index int, selectedIndexes map[int]struct{}) []int {
	children := []int{}
	for _, childIndex := range skeleton.ChildIndexes(index) {
		if _, selected := selectedIndexes[childIndex]; selected {
			children = append(children, childIndex)
		}
	}
	return children
}
