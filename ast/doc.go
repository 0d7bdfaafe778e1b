/*
Package ast defines the block tree the refpipe passes operate on.

Overview

The tree mirrors the document model of the host parser: a document is a
metadata map plus an ordered sequence of blocks, blocks contain either
inlines or nested blocks. Every node is a tagged variant; clients dispatch
on the concrete type (or on Tag()) instead of relying on a visitor protocol
controlled by the host.

Figures and tables are modelled far enough to reach their captions and
cells. Node kinds the pipeline never looks into (code blocks, definition
lists, line blocks, ...) are carried as Opaque payloads, so a host document
survives a round trip unchanged apart from the nodes the passes rewrite.

Walking

Type Walker performs an explicit, synchronous traversal. Actions return
the list of replacements for a node: nil drops the node, a one-element
list holding the node keeps it, several nodes splice into the parent
sequence in order.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.ast'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.ast")
}
