package domain

// DefectType enumerates the tree defects a record can document. The values
// are stored verbatim and used verbatim on the wire.
type DefectType string

const (
	DefectDeadWood              DefectType = "DEAD_WOOD"
	DefectCracks                DefectType = "CRACKS"
	DefectWeakUnionIncludedBark DefectType = "WEAK_UNION_INCLUDED_BARK"
	DefectHeartwoodDecay        DefectType = "HEARTWOOD_DECAY"
	DefectSapwoodDamageDecay    DefectType = "SAPWOOD_DAMAGE_DECAY"
	DefectCavityHollow          DefectType = "CAVITY_HOLLOW"
	DefectConksMushrooms        DefectType = "CONKS_MUSHROOMS"
	DefectCankersGallsBurls     DefectType = "CANKERS_GALLS_BURLS"
	DefectRootProblems          DefectType = "ROOT_PROBLEMS"
	DefectRootPlateLifting      DefectType = "ROOT_PLATE_LIFTING"
	DefectLean                  DefectType = "LEAN"
	DefectPoorArchitecture      DefectType = "POOR_ARCHITECTURE"
	DefectLightningDamage       DefectType = "LIGHTNING_DAMAGE"
	DefectSapOoze               DefectType = "SAP_OOZE"
)

// DefectCategory groups defect types by the part of the tree they affect.
type DefectCategory string

const (
	CategoryCrown DefectCategory = "CROWN"
	CategoryTrunk DefectCategory = "TRUNK"
	CategoryRoots DefectCategory = "ROOTS"
	CategoryOther DefectCategory = "OTHER"
)

// DefectTypeItem is one catalog entry served by GET /defect-types.
type DefectTypeItem struct {
	Key      DefectType     `json:"key"`
	Category DefectCategory `json:"category"`
}

// DefectTypeCatalog is the full catalog in its fixed presentation order.
var DefectTypeCatalog = []DefectTypeItem{
	{Key: DefectDeadWood, Category: CategoryCrown},
	{Key: DefectCracks, Category: CategoryTrunk},
	{Key: DefectWeakUnionIncludedBark, Category: CategoryCrown},
	{Key: DefectHeartwoodDecay, Category: CategoryTrunk},
	{Key: DefectSapwoodDamageDecay, Category: CategoryTrunk},
	{Key: DefectCavityHollow, Category: CategoryTrunk},
	{Key: DefectConksMushrooms, Category: CategoryTrunk},
	{Key: DefectCankersGallsBurls, Category: CategoryTrunk},
	{Key: DefectRootProblems, Category: CategoryRoots},
	{Key: DefectRootPlateLifting, Category: CategoryRoots},
	{Key: DefectLean, Category: CategoryTrunk},
	{Key: DefectPoorArchitecture, Category: CategoryOther},
	{Key: DefectLightningDamage, Category: CategoryTrunk},
	{Key: DefectSapOoze, Category: CategoryTrunk},
}

var defectTypeSet = func() map[DefectType]struct{} {
	set := make(map[DefectType]struct{}, len(DefectTypeCatalog))
	for _, item := range DefectTypeCatalog {
		set[item.Key] = struct{}{}
	}
	return set
}()

// Valid reports whether t is a known defect type.
func (t DefectType) Valid() bool {
	_, ok := defectTypeSet[t]
	return ok
}
