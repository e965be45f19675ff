package protocol

// TransmissionType records why a retransmittable frame was added to a
// packet. A packet's TransmissionType is the type of the last retransmittable
// frame added to it (spec §3, "In-Progress Packet").
type TransmissionType uint8

const (
	// TransmissionTypeNormal is used for data sent for the first time.
	TransmissionTypeNormal TransmissionType = iota
	// TransmissionTypeLossRetransmission is used when retransmitting data
	// that was declared lost.
	TransmissionTypeLossRetransmission
	// TransmissionTypeProbing is used for connectivity probes that bypass
	// congestion control.
	TransmissionTypeProbing
	// TransmissionTypePTO is used for probe-timeout retransmissions.
	TransmissionTypePTO
	// TransmissionTypePathMTUDiscovery is used for MTU discovery probes.
	TransmissionTypePathMTUDiscovery
)

func (t TransmissionType) String() string {
	switch t {
	case TransmissionTypeNormal:
		return "normal"
	case TransmissionTypeLossRetransmission:
		return "loss-retransmission"
	case TransmissionTypeProbing:
		return "probing"
	case TransmissionTypePTO:
		return "pto"
	case TransmissionTypePathMTUDiscovery:
		return "path-mtu-discovery"
	default:
		return "unknown transmission type"
	}
}

// IsProbing says whether packets of this transmission type bypass
// congestion control, per spec §4.3's
// "congestion control is bypassed" carve-out for PING and CONNECTION_CLOSE.
func (t TransmissionType) IsProbing() bool {
	return t == TransmissionTypeProbing || t == TransmissionTypePathMTUDiscovery
}
