/*
Package edds reads and writes Enfusion DDS (EDDS) textures.

An EDDS file is a DDS header, tagged "ENF1" in the reserved area, followed by
one block table entry per mip level and then the block bodies, both ordered
from the smallest level to the largest. A block is stored raw (COPY) or as an
LZ4 chunk stream that compresses 64 KiB chunks against a rolling dictionary.

Headers go through the dds package, so decoded textures are ordinary
*dds.Image values with a full mip chain. Only single 2D textures are stored.
*/
package edds
