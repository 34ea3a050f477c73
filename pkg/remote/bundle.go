package remote

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
	"github.com/jonathanalvares9009/version/pkg/repo"
)

// bundleMagic heads every bundle stream, inside the compression layer.
const bundleMagic = "versionbundle v1"

// BundleRef is one branch snapshot carried by a bundle.
type BundleRef struct {
	Name string // branch name, unqualified
	Hash object.Hash
}

// WriteBundle serializes every object in the repository plus a snapshot of
// its local heads into a zstd-compressed stream. The offline counterpart of
// push: the receiving side extracts objects and decides its own ref updates.
//
// Stream layout (after decompression):
//
//	versionbundle v1
//	ref <hash> <branch>     (zero or more)
//
//	object <hash> <len>
//	<len raw bytes>
func WriteBundle(r *repo.Repo, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("bundle: compressor: %w", err)
	}

	if err := writeBundlePayload(r, zw); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("bundle: close compressor: %w", err)
	}
	return nil
}

func writeBundlePayload(r *repo.Repo, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", bundleMagic)

	heads, err := r.LocalHeads()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(heads))
	for name := range heads {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(bw, "ref %s %s\n", heads[name], name)
	}
	fmt.Fprintln(bw)

	hashes, err := r.Store.AllHashes()
	if err != nil {
		return err
	}
	for _, h := range hashes {
		raw, err := r.Store.ReadRaw(h)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "object %s %d\n", h, len(raw))
		if _, err := bw.Write(raw); err != nil {
			return fmt.Errorf("bundle: write object %s: %w", h, err)
		}
	}

	r.Logger().Info("bundled",
		zap.Int("objects", len(hashes)),
		zap.Int("refs", len(names)))
	return bw.Flush()
}

// WriteBundleFile writes a bundle to the named file.
func WriteBundleFile(r *repo.Repo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bundle: create %q: %w", path, err)
	}
	if err := WriteBundle(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadBundle imports every object from a bundle stream into the repository's
// store and returns the branch snapshot the bundle carried. Refs are
// reported, not applied; callers update refs explicitly.
func ReadBundle(r *repo.Repo, rd io.Reader) ([]BundleRef, int, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, 0, fmt.Errorf("bundle: decompressor: %w", err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	magic, err := readLine(br)
	if err != nil || magic != bundleMagic {
		return nil, 0, fmt.Errorf("bundle: not a version bundle")
	}

	var refs []BundleRef
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, 0, fmt.Errorf("bundle: truncated ref section")
		}
		if line == "" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[0] != "ref" {
			return nil, 0, fmt.Errorf("bundle: malformed ref record %q", line)
		}
		refs = append(refs, BundleRef{Name: fields[2], Hash: object.Hash(fields[1])})
	}

	count := 0
	for {
		line, err := readLine(br)
		if err == io.EOF || (err == nil && line == "") {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("bundle: read object header: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[0] != "object" {
			return nil, 0, fmt.Errorf("bundle: malformed object header %q", line)
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return nil, 0, fmt.Errorf("bundle: bad object size %q", fields[2])
		}

		raw := make([]byte, size)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, 0, fmt.Errorf("bundle: read object %s: %w", fields[1], err)
		}
		if err := r.Store.WriteRaw(object.Hash(fields[1]), raw); err != nil {
			return nil, 0, err
		}
		count++
	}

	r.Logger().Info("unbundled", zap.Int("objects", count))
	return refs, count, nil
}

// ReadBundleFile imports a bundle from the named file.
func ReadBundleFile(r *repo.Repo, path string) ([]BundleRef, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("bundle: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadBundle(r, f)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}
