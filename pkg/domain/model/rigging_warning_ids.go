// 指示: miu200521358
package model

const (
	// RiggingWarningChainBoneNotFound は揺れ骨チェーンのボーン未解決警告。
	RiggingWarningChainBoneNotFound = "RiggingWarningChainBoneNotFound"
	// RiggingWarningChainSlotCopyFailed はチェーン設定のスロット転記失敗警告。
	RiggingWarningChainSlotCopyFailed = "RiggingWarningChainSlotCopyFailed"
	// RiggingWarningChainElementMalformed はチェーン要素の形式不正警告。
	RiggingWarningChainElementMalformed = "RiggingWarningChainElementMalformed"
	// RiggingWarningChainBranchDetected はチェーン解析の分岐検出警告。
	RiggingWarningChainBranchDetected = "RiggingWarningChainBranchDetected"
	// RiggingWarningBonesNotInChain は選択ボーンのチェーン未包含警告。
	RiggingWarningBonesNotInChain = "RiggingWarningBonesNotInChain"
	// RiggingWarningAttachmentArmatureNotFound はアタッチ先スケルトン未解決警告。
	RiggingWarningAttachmentArmatureNotFound = "RiggingWarningAttachmentArmatureNotFound"
	// RiggingWarningAttachmentBoneNotFound はアタッチ先ボーン未解決警告。
	RiggingWarningAttachmentBoneNotFound = "RiggingWarningAttachmentBoneNotFound"
	// RiggingWarningAttachmentParentMissing はスケルトン親ノード不在警告。
	RiggingWarningAttachmentParentMissing = "RiggingWarningAttachmentParentMissing"
	// RiggingWarningAttachmentCycleDetected は要求ノードがアタッチ先の祖先である場合の警告。
	RiggingWarningAttachmentCycleDetected = "RiggingWarningAttachmentCycleDetected"
)
