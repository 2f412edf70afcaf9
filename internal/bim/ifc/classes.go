package ifc

import (
	"strings"
)

// ============================================================
// Supported rooted classes
// ============================================================

type layout int

const (
	layoutProject layout = iota
	layoutSite
	layoutBuilding
	layoutStorey
	layoutSpace
	layoutElement
)

type classInfo struct {
	name    string // schema name, e.g. IfcWall
	keyword string // STEP keyword, e.g. IFCWALL
	layout  layout
	spatial bool
}

var classes = map[string]classInfo{}

func register(name string, l layout, spatial bool) {
	info := classInfo{name: name, keyword: strings.ToUpper(name), layout: l, spatial: spatial}
	classes[strings.ToLower(name)] = info
}

func init() {
	register("IfcProject", layoutProject, false)
	register("IfcSite", layoutSite, true)
	register("IfcBuilding", layoutBuilding, true)
	register("IfcBuildingStorey", layoutStorey, true)
	register("IfcSpace", layoutSpace, true)
	register("IfcWall", layoutElement, false)
	register("IfcSlab", layoutElement, false)
	register("IfcOpeningElement", layoutElement, false)
	register("IfcColumn", layoutElement, false)
	register("IfcBeam", layoutElement, false)
	register("IfcBuildingElementProxy", layoutElement, false)
}

// lookupClass принимает имя класса с префиксом Ifc или без него, без учета регистра.
func lookupClass(name string) (classInfo, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return classInfo{}, false
	}
	if !strings.HasPrefix(key, "ifc") {
		key = "ifc" + key
	}
	info, ok := classes[key]
	return info, ok
}

// attribute count and positions of the IFC4 rooted classes we write
const (
	attrGlobalID  = 0
	attrName      = 2
	attrPlacement = 5
	attrShape     = 6

	attrProjectContexts = 7
	attrProjectUnits    = 8
)

func (c classInfo) attributeCount() int {
	switch c.layout {
	case layoutProject:
		return 9
	case layoutSite:
		return 14
	case layoutBuilding:
		return 12
	case layoutStorey:
		return 10
	case layoutSpace:
		return 11
	default:
		return 9
	}
}

func (c classInfo) isProduct() bool {
	return c.layout != layoutProject
}
