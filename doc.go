/*
Package dds implements DirectDraw Surface (DDS) container decode and encode
for GPU texture data: 1D, 2D, 3D and cubemap textures with mip chains and
array slices.

Decoding parses the base header and the optional DX10 extension header,
resolves legacy bit-mask and fourCC pixel formats to a canonical DXGI-style
Format through an ordered table, and assembles the pixel data into an Image
made of one PixelBuffer per (array index, mip level, depth slice). Legacy
layouts (24bpp RGB, 3:3:2, 8:3:3:2, 4:4, 4:4:4:4, palettes) are expanded to
32bpp RGBA, BGR layouts are optionally swizzled to RGB, and alpha can be
forced opaque, one scanline at a time.

An Image either borrows the caller's input buffer (zero-copy) or owns a
freshly allocated buffer; Image.Ownership reports which. Block-compressed
payloads are copied verbatim.

Encoding writes the header (legacy pixel format when one round-trips,
DX10 extension otherwise) followed by every slice in array, mip, depth order.
*/
package dds
