package models

// KindName identifies the ecosystem a directory was resolved to.
type KindName string

const (
	KindMake  KindName = "make"
	KindCargo KindName = "cargo"
	KindCpp   KindName = "cpp"
	KindC     KindName = "c"
	KindRust  KindName = "rust"
	KindJs    KindName = "js"
	KindLua   KindName = "lua"
	KindBash  KindName = "bash"
)

// AllKinds lists every supported kind, manifests first.
var AllKinds = []KindName{
	KindMake,
	KindCargo,
	KindCpp,
	KindC,
	KindRust,
	KindJs,
	KindLua,
	KindBash,
}

// String returns the string representation of KindName
func (k KindName) String() string {
	return string(k)
}
