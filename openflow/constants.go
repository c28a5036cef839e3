/*
 * ofagent - An OpenFlow Switch Agent
 *
 * Copyright (C) 2016 The ofagent Authors. All rights reserved.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package openflow

// Supported wire protocol versions.
const (
	Version1 uint8 = 0x01
	Version3 uint8 = 0x03
	Version4 uint8 = 0x04
)

// Type identifies a message independently of the per-version numeric
// code spaces.
type Type uint8

const (
	TypeHello Type = iota
	TypeError
	TypeEchoRequest
	TypeEchoReply
	TypeExperimenter
	TypeFeaturesRequest
	TypeFeaturesReply
	TypeGetConfigRequest
	TypeGetConfigReply
	TypeSetConfig
	TypePacketIn
	TypeFlowRemoved
	TypePortStatus
	TypePacketOut
	TypeFlowMod
	TypeGroupMod
	TypePortMod
	TypeTableMod
	TypeStatsRequest
	TypeStatsReply
	TypeBarrierRequest
	TypeBarrierReply
	TypeQueueGetConfigRequest
	TypeQueueGetConfigReply
	TypeRoleRequest
	TypeRoleReply
	TypeGetAsyncRequest
	TypeGetAsyncReply
	TypeSetAsync
	TypeMeterMod

	numTypes
)

var typeNames = map[Type]string{
	TypeHello:                 "hello",
	TypeError:                 "error",
	TypeEchoRequest:           "echo_request",
	TypeEchoReply:             "echo_reply",
	TypeExperimenter:          "experimenter",
	TypeFeaturesRequest:       "features_request",
	TypeFeaturesReply:         "features_reply",
	TypeGetConfigRequest:      "get_config_request",
	TypeGetConfigReply:        "get_config_reply",
	TypeSetConfig:             "set_config",
	TypePacketIn:              "packet_in",
	TypeFlowRemoved:           "flow_removed",
	TypePortStatus:            "port_status",
	TypePacketOut:             "packet_out",
	TypeFlowMod:               "flow_mod",
	TypeGroupMod:              "group_mod",
	TypePortMod:               "port_mod",
	TypeTableMod:              "table_mod",
	TypeStatsRequest:          "stats_request",
	TypeStatsReply:            "stats_reply",
	TypeBarrierRequest:        "barrier_request",
	TypeBarrierReply:          "barrier_reply",
	TypeQueueGetConfigRequest: "queue_get_config_request",
	TypeQueueGetConfigReply:   "queue_get_config_reply",
	TypeRoleRequest:           "role_request",
	TypeRoleReply:             "role_reply",
	TypeGetAsyncRequest:       "get_async_request",
	TypeGetAsyncReply:         "get_async_reply",
	TypeSetAsync:              "set_async",
	TypeMeterMod:              "meter_mod",
}

func (r Type) String() string {
	name, ok := typeNames[r]
	if !ok {
		return "unknown"
	}
	return name
}

// Message type code spaces. Version 1 uses the original numbering;
// versions 3 and 4 share the later one where GROUP_MOD and friends were
// inserted before PORT_MOD.
var typeCodesV1 = map[Type]uint8{
	TypeHello:                 0,
	TypeError:                 1,
	TypeEchoRequest:           2,
	TypeEchoReply:             3,
	TypeExperimenter:          4,
	TypeFeaturesRequest:       5,
	TypeFeaturesReply:         6,
	TypeGetConfigRequest:      7,
	TypeGetConfigReply:        8,
	TypeSetConfig:             9,
	TypePacketIn:              10,
	TypeFlowRemoved:           11,
	TypePortStatus:            12,
	TypePacketOut:             13,
	TypeFlowMod:               14,
	TypePortMod:               15,
	TypeStatsRequest:          16,
	TypeStatsReply:            17,
	TypeBarrierRequest:        18,
	TypeBarrierReply:          19,
	TypeQueueGetConfigRequest: 20,
	TypeQueueGetConfigReply:   21,
}

var typeCodesV3 = map[Type]uint8{
	TypeHello:                 0,
	TypeError:                 1,
	TypeEchoRequest:           2,
	TypeEchoReply:             3,
	TypeExperimenter:          4,
	TypeFeaturesRequest:       5,
	TypeFeaturesReply:         6,
	TypeGetConfigRequest:      7,
	TypeGetConfigReply:        8,
	TypeSetConfig:             9,
	TypePacketIn:              10,
	TypeFlowRemoved:           11,
	TypePortStatus:            12,
	TypePacketOut:             13,
	TypeFlowMod:               14,
	TypeGroupMod:              15,
	TypePortMod:               16,
	TypeTableMod:              17,
	TypeStatsRequest:          18,
	TypeStatsReply:            19,
	TypeBarrierRequest:        20,
	TypeBarrierReply:          21,
	TypeQueueGetConfigRequest: 22,
	TypeQueueGetConfigReply:   23,
	TypeRoleRequest:           24,
	TypeRoleReply:             25,
	TypeGetAsyncRequest:       26,
	TypeGetAsyncReply:         27,
	TypeSetAsync:              28,
	TypeMeterMod:              29,
}

var (
	typeFromCodeV1 = reverseTypeCodes(typeCodesV1)
	typeFromCodeV3 = reverseTypeCodes(typeCodesV3)
)

func reverseTypeCodes(m map[Type]uint8) map[uint8]Type {
	v := make(map[uint8]Type, len(m))
	for typ, code := range m {
		v[code] = typ
	}
	return v
}

func typeCode(version uint8, typ Type) (uint8, bool) {
	var code uint8
	var ok bool
	switch version {
	case Version1:
		code, ok = typeCodesV1[typ]
	case Version3, Version4:
		code, ok = typeCodesV3[typ]
	}
	return code, ok
}

func typeFromCode(version uint8, code uint8) (Type, bool) {
	var typ Type
	var ok bool
	switch version {
	case Version1:
		typ, ok = typeFromCodeV1[code]
	case Version3, Version4:
		typ, ok = typeFromCodeV3[code]
	}
	return typ, ok
}

// SupportedVersion reports whether this codec speaks the version.
func SupportedVersion(version uint8) bool {
	switch version {
	case Version1, Version3, Version4:
		return true
	}
	return false
}

// HELLO element types.
const helloElemVersionBitmap uint16 = 1

// Error types.
const (
	ErrTypeHelloFailed    uint16 = 0
	ErrTypeBadRequest     uint16 = 1
	ErrTypeBadAction      uint16 = 2
	ErrTypeBadInstruction uint16 = 3
	ErrTypeBadMatch       uint16 = 4
	ErrTypeFlowModFailed  uint16 = 5
	ErrTypeGroupModFailed uint16 = 6
	ErrTypePortModFailed  uint16 = 7
	ErrTypeTableModFailed uint16 = 8
	ErrTypeQueueOpFailed  uint16 = 9
	ErrTypeRoleFailed     uint16 = 11
	ErrTypeMeterModFailed uint16 = 12
	ErrTypeExperimenter   uint16 = 0xFFFF
)

// bad_request error codes.
const (
	ErrCodeBadVersion uint16 = 0
	ErrCodeBadType    uint16 = 1
	ErrCodeBadLen     uint16 = 5
	ErrCodeEPerm      uint16 = 8
	ErrCodeIsSlave    uint16 = 10
)

// hello_failed error codes.
const (
	ErrCodeIncompatible uint16 = 0
)

// packet_in reasons.
const (
	PacketInReasonNoMatch    uint8 = 0
	PacketInReasonAction     uint8 = 1
	PacketInReasonInvalidTTL uint8 = 2
)

// flow_removed reasons.
const (
	FlowRemovedReasonIdleTimeout uint8 = 0
	FlowRemovedReasonHardTimeout uint8 = 1
	FlowRemovedReasonDelete      uint8 = 2
	FlowRemovedReasonGroupDelete uint8 = 3
)

// port_status reasons.
const (
	PortReasonAdd    uint8 = 0
	PortReasonDelete uint8 = 1
	PortReasonModify uint8 = 2
)

// Match types.
const (
	MatchTypeStandard uint16 = 0
	MatchTypeOXM      uint16 = 1
)

// OXM classes.
const (
	OXMClassNXM0          uint16 = 0x0000
	OXMClassNXM1          uint16 = 0x0001
	OXMClassOpenFlowBasic uint16 = 0x8000
	OXMClassExperimenter  uint16 = 0xFFFF
)

// OXM fields of the openflow_basic class.
const (
	OXMFieldInPort        uint8 = 0
	OXMFieldInPhyPort     uint8 = 1
	OXMFieldMetadata      uint8 = 2
	OXMFieldEthDst        uint8 = 3
	OXMFieldEthSrc        uint8 = 4
	OXMFieldEthType       uint8 = 5
	OXMFieldVLANVID       uint8 = 6
	OXMFieldVLANPCP       uint8 = 7
	OXMFieldIPDSCP        uint8 = 8
	OXMFieldIPECN         uint8 = 9
	OXMFieldIPProto       uint8 = 10
	OXMFieldIPv4Src       uint8 = 11
	OXMFieldIPv4Dst       uint8 = 12
	OXMFieldTCPSrc        uint8 = 13
	OXMFieldTCPDst        uint8 = 14
	OXMFieldUDPSrc        uint8 = 15
	OXMFieldUDPDst        uint8 = 16
	OXMFieldSCTPSrc       uint8 = 17
	OXMFieldSCTPDst       uint8 = 18
	OXMFieldICMPv4Type    uint8 = 19
	OXMFieldICMPv4Code    uint8 = 20
	OXMFieldARPOp         uint8 = 21
	OXMFieldARPSPA        uint8 = 22
	OXMFieldARPTPA        uint8 = 23
	OXMFieldARPSHA        uint8 = 24
	OXMFieldARPTHA        uint8 = 25
	OXMFieldIPv6Src       uint8 = 26
	OXMFieldIPv6Dst       uint8 = 27
	OXMFieldIPv6FLabel    uint8 = 28
	OXMFieldICMPv6Type    uint8 = 29
	OXMFieldICMPv6Code    uint8 = 30
	OXMFieldIPv6NDTarget  uint8 = 31
	OXMFieldIPv6NDSLL     uint8 = 32
	OXMFieldIPv6NDTLL     uint8 = 33
	OXMFieldMPLSLabel     uint8 = 34
	OXMFieldMPLSTC        uint8 = 35
	OXMFieldMPLSBOS       uint8 = 36
	OXMFieldPBBISID       uint8 = 37
	OXMFieldTunnelID      uint8 = 38
	OXMFieldIPv6ExtHeader uint8 = 39
)

// Canonical value bit lengths of the openflow_basic OXM fields.
var tlvLength = map[uint8]int{
	OXMFieldInPort:        32,
	OXMFieldInPhyPort:     32,
	OXMFieldMetadata:      64,
	OXMFieldEthDst:        48,
	OXMFieldEthSrc:        48,
	OXMFieldEthType:       16,
	OXMFieldVLANVID:       13,
	OXMFieldVLANPCP:       3,
	OXMFieldIPDSCP:        6,
	OXMFieldIPECN:         2,
	OXMFieldIPProto:       8,
	OXMFieldIPv4Src:       32,
	OXMFieldIPv4Dst:       32,
	OXMFieldTCPSrc:        16,
	OXMFieldTCPDst:        16,
	OXMFieldUDPSrc:        16,
	OXMFieldUDPDst:        16,
	OXMFieldSCTPSrc:       16,
	OXMFieldSCTPDst:       16,
	OXMFieldICMPv4Type:    8,
	OXMFieldICMPv4Code:    8,
	OXMFieldARPOp:         16,
	OXMFieldARPSPA:        32,
	OXMFieldARPTPA:        32,
	OXMFieldARPSHA:        48,
	OXMFieldARPTHA:        48,
	OXMFieldIPv6Src:       128,
	OXMFieldIPv6Dst:       128,
	OXMFieldIPv6FLabel:    20,
	OXMFieldICMPv6Type:    8,
	OXMFieldICMPv6Code:    8,
	OXMFieldIPv6NDTarget:  128,
	OXMFieldIPv6NDSLL:     48,
	OXMFieldIPv6NDTLL:     48,
	OXMFieldMPLSLabel:     20,
	OXMFieldMPLSTC:        3,
	OXMFieldMPLSBOS:       1,
	OXMFieldPBBISID:       24,
	OXMFieldTunnelID:      64,
	OXMFieldIPv6ExtHeader: 9,
}
