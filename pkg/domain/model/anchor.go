// 指示: miu200521358
package model

// AttachmentAnchor はボーン追従アンカーの束縛情報を表す。
// アンカーはインポート単位で追加のみ行い、再利用しない。
type AttachmentAnchor struct {
	BoneName  string
	BoneIndex int
}
