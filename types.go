// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatgeobuf

import "github.com/spatialgo/flatgeobuf/flat"

// Feature, Geometry, Header, Column and Crs are the hand-maintained
// FlatBuffers table bindings for the FlatGeobuf wire schema. They live
// in package flat so that geometry and property codecs can depend on
// the wire types without pulling in the state machine and I/O plumbing
// of this package.
type (
	Feature  = flat.Feature
	Geometry = flat.Geometry
	Header   = flat.Header
	Column   = flat.Column
	Crs      = flat.Crs

	ColumnType   = flat.ColumnType
	GeometryType = flat.GeometryType
)

const (
	ColumnTypeByte     = flat.ColumnTypeByte
	ColumnTypeUByte    = flat.ColumnTypeUByte
	ColumnTypeBool     = flat.ColumnTypeBool
	ColumnTypeShort    = flat.ColumnTypeShort
	ColumnTypeUShort   = flat.ColumnTypeUShort
	ColumnTypeInt      = flat.ColumnTypeInt
	ColumnTypeUInt     = flat.ColumnTypeUInt
	ColumnTypeLong     = flat.ColumnTypeLong
	ColumnTypeULong    = flat.ColumnTypeULong
	ColumnTypeFloat    = flat.ColumnTypeFloat
	ColumnTypeDouble   = flat.ColumnTypeDouble
	ColumnTypeString   = flat.ColumnTypeString
	ColumnTypeJson     = flat.ColumnTypeJson
	ColumnTypeDateTime = flat.ColumnTypeDateTime
	ColumnTypeBinary   = flat.ColumnTypeBinary
)

const (
	GeometryTypeUnknown            = flat.GeometryTypeUnknown
	GeometryTypePoint              = flat.GeometryTypePoint
	GeometryTypeMultiPoint         = flat.GeometryTypeMultiPoint
	GeometryTypeLineString         = flat.GeometryTypeLineString
	GeometryTypeMultiLineString    = flat.GeometryTypeMultiLineString
	GeometryTypePolygon            = flat.GeometryTypePolygon
	GeometryTypeMultiPolygon       = flat.GeometryTypeMultiPolygon
	GeometryTypeGeometryCollection = flat.GeometryTypeGeometryCollection
	GeometryTypeCircularString     = flat.GeometryTypeCircularString
	GeometryTypeCompoundCurve      = flat.GeometryTypeCompoundCurve
	GeometryTypeCurvePolygon       = flat.GeometryTypeCurvePolygon
	GeometryTypeMultiCurve         = flat.GeometryTypeMultiCurve
	GeometryTypeMultiSurface       = flat.GeometryTypeMultiSurface
	GeometryTypeCurve              = flat.GeometryTypeCurve
	GeometryTypeSurface            = flat.GeometryTypeSurface
	GeometryTypePolyhedralSurface  = flat.GeometryTypePolyhedralSurface
	GeometryTypeTIN                = flat.GeometryTypeTIN
	GeometryTypeTriangle           = flat.GeometryTypeTriangle
)

// Schema describes the set of columns against which a Feature's packed
// property stream is decoded. *Header implements Schema.
type Schema interface {
	ColumnsLength() int
	Columns(obj *Column, j int) bool
}
