package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/madeye/jbind/domain/descriptor"
)

// guestRef is the Raw() payload of an object handle backed by guest linear
// memory: a string or array region. elemWidth is zero for strings.
type guestRef struct {
	mod       api.Module
	ptr       uint32
	size      uint32
	elemWidth uint32
}

// packed returns the ptr/len word form used on the wasm call boundary:
// pointer in the high 32 bits, byte length in the low 32 bits.
func (g *guestRef) packed() uint64 {
	return (uint64(g.ptr) << 32) | uint64(g.size)
}

func unpack(word uint64) (ptr, size uint32) {
	return uint32(word >> 32), uint32(word)
}

// elemWidth returns the byte width of one array element of the given token.
func elemWidth(t descriptor.Type) uint32 {
	if t.Kind == descriptor.Object {
		return 8 // packed ptr/len word
	}
	switch t.Kind {
	case descriptor.Boolean, descriptor.Byte:
		return 1
	case descriptor.Char, descriptor.Short:
		return 2
	case descriptor.Int, descriptor.Float:
		return 4
	default:
		return 8
	}
}

// allocGuest reserves size bytes in the guest through its "allocate" export.
func allocGuest(ctx context.Context, mod api.Module, size uint32) (uint32, error) {
	allocate := mod.ExportedFunction("allocate")
	if allocate == nil {
		return 0, fmt.Errorf("guest %q does not export 'allocate'", mod.Name())
	}
	results, err := allocate.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest allocate failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("guest allocate returned no results")
	}
	return uint32(results[0]), nil
}

// freeGuest releases a guest allocation through the optional "deallocate"
// export. Guests without one reclaim on their own.
func freeGuest(ctx context.Context, mod api.Module, ptr, size uint32) {
	deallocate := mod.ExportedFunction("deallocate")
	if deallocate == nil {
		return
	}
	_, _ = deallocate.Call(ctx, uint64(ptr), uint64(size))
}

// readElem decodes one array element from guest memory.
func readElem(mem api.Memory, ptr uint32, width uint32) (uint64, bool) {
	switch width {
	case 1:
		b, ok := mem.ReadByte(ptr)
		return uint64(b), ok
	case 2:
		v, ok := mem.ReadUint16Le(ptr)
		return uint64(v), ok
	case 4:
		v, ok := mem.ReadUint32Le(ptr)
		return uint64(v), ok
	default:
		return mem.ReadUint64Le(ptr)
	}
}

// writeElem encodes one array element into guest memory.
func writeElem(mem api.Memory, ptr uint32, width uint32, bits uint64) bool {
	switch width {
	case 1:
		return mem.WriteByte(ptr, byte(bits))
	case 2:
		return mem.WriteUint16Le(ptr, uint16(bits))
	case 4:
		return mem.WriteUint32Le(ptr, uint32(bits))
	default:
		return mem.WriteUint64Le(ptr, bits)
	}
}
