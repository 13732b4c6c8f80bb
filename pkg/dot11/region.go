package dot11

// DFSRegion is the regulatory-domain enumeration the host stack reports.
type DFSRegion uint8

const (
	DFSUnset DFSRegion = iota
	DFSFCC
	DFSETSI
	DFSJP
)

// RegionCode is the firmware's region encoding.
type RegionCode uint8

const (
	RegionFCC   RegionCode = 1
	RegionETSI  RegionCode = 2
	RegionTELEC RegionCode = 3
	RegionWorld RegionCode = 4
)

// RegionForDFS maps a host-stack regulatory domain to the firmware region
// code. Unset and unrecognized domains fall back to the world domain.
func RegionForDFS(r DFSRegion) RegionCode {
	switch r {
	case DFSFCC:
		return RegionFCC
	case DFSETSI:
		return RegionETSI
	case DFSJP:
		return RegionTELEC
	case DFSUnset:
		return RegionWorld
	}
	return RegionWorld
}
