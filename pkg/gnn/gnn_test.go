package gnn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestMulTransposed(t *testing.T) {
	x, err := FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	w, err := FromRows([][]float64{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)

	out, err := MulTransposed(x, w)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, 3, out.Cols)
	assert.Equal(t, []float64{1, 2, 3, 3, 4, 7}, out.Data)

	_, err = MulTransposed(x, NewMatrix(2, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFromRowsRagged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name   string
		logits []float64
	}{
		{"small", []float64{0.1, 0.2, 0.3}},
		{"equal", []float64{1, 1, 1}},
		{"large", []float64{1000, 1001, 999}},
		{"negative", []float64{-1000, -5, -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs := Softmax(tt.logits)
			var sum float64
			for _, p := range probs {
				assert.False(t, math.IsNaN(p))
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-12)
			assert.Equal(t, Argmax(tt.logits), Argmax(probs))
		})
	}
	assert.Nil(t, Softmax(nil))
}

func TestArgmaxFirstWinsTies(t *testing.T) {
	assert.Equal(t, 0, Argmax([]float64{2, 2, 1}))
	assert.Equal(t, 1, Argmax([]float64{1, 3, 3}))
	assert.Equal(t, 2, Argmax([]float64{0, 1, 5}))
}

func TestCheckFinite(t *testing.T) {
	m := Filled(2, 2, 1)
	require.NoError(t, m.CheckFinite())
	m.Set(1, 0, math.NaN())
	assert.ErrorIs(t, m.CheckFinite(), ErrNonFinite)
	m.Set(1, 0, math.Inf(-1))
	assert.ErrorIs(t, m.CheckFinite(), ErrNonFinite)
}

func TestGCNNormSelfLoops(t *testing.T) {
	// 0->1 plus an explicit self-loop on 1 that must be replaced
	d, err := NewData(Filled(2, 1, 1), [][2]int{{0, 1}, {1, 1}})
	require.NoError(t, err)

	p := gcnNorm(d)
	require.Len(t, p.src, 3)
	assert.Equal(t, []int{0, 0, 1}, p.src)
	assert.Equal(t, []int{1, 0, 1}, p.dst)
	assert.InDelta(t, 1/math.Sqrt(2), p.weight[0], eps)
	assert.InDelta(t, 1.0, p.weight[1], eps)
	assert.InDelta(t, 0.5, p.weight[2], eps)
}

func TestGCNConvHandComputed(t *testing.T) {
	d, err := NewData(Filled(2, 1, 1), [][2]int{{0, 1}})
	require.NoError(t, err)

	conv := GCNConv{
		Lin:  Linear{Weight: &Matrix{Rows: 2, Cols: 1, Data: []float64{1, -2}}},
		Bias: []float64{0.5, 0},
	}
	out, err := conv.Forward(d.X, gcnNorm(d))
	require.NoError(t, err)

	// node 0 only aggregates itself; node 1 gets 1/sqrt(2) from 0 and 1/2 from itself
	agg1 := 1/math.Sqrt(2) + 0.5
	assert.InDelta(t, 1.5, out.At(0, 0), eps)
	assert.InDelta(t, -2.0, out.At(0, 1), eps)
	assert.InDelta(t, agg1+0.5, out.At(1, 0), eps)
	assert.InDelta(t, -2*agg1, out.At(1, 1), eps)
}

func TestMeanPool(t *testing.T) {
	x, err := FromRows([][]float64{{1, 2}, {3, 4}, {10, 10}})
	require.NoError(t, err)

	out, err := MeanPool(x, []int{0, 0, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, out.Row(0))
	assert.Equal(t, []float64{10, 10}, out.Row(1))

	_, err = MeanPool(x, []int{0, 0}, 1)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewDataRejectsOutOfRange(t *testing.T) {
	_, err := NewData(Filled(2, 1, 1), [][2]int{{0, 2}})
	assert.ErrorIs(t, err, ErrInvalidGraph)
	_, err = NewData(Filled(2, 1, 1), [][2]int{{-1, 0}})
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestModelPredict(t *testing.T) {
	m := NewDefaultModel(7)
	require.NoError(t, m.Validate())
	assert.Equal(t, 1, m.InChannels())
	assert.Equal(t, 64, m.HiddenChannels())
	assert.Equal(t, 3, m.OutChannels())
	assert.Equal(t, 64+64+64*64+64+3*64+3, m.NumParameters())

	edges := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	first, err := m.Predict(3, edges)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := m.Predict(3, edges)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := NewDefaultModel(7)
	third, err := other.Predict(3, edges)
	require.NoError(t, err)
	assert.Equal(t, first, third, "same seed must give same weights")
}

func TestModelForwardNonFinite(t *testing.T) {
	m := NewDefaultModel(1)
	m.Head.Bias[0] = math.Inf(1)
	_, err := m.Predict(2, [][2]int{{0, 1}})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestModelForwardFeatureWidth(t *testing.T) {
	m := NewDefaultModel(1)
	d, err := NewData(Filled(2, 2, 1), [][2]int{{0, 1}})
	require.NoError(t, err)
	_, err = m.Forward(d)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestModelValidate(t *testing.T) {
	m := NewDefaultModel(1)
	m.Conv2.Bias = m.Conv2.Bias[:10]
	assert.ErrorIs(t, m.Validate(), ErrInvalidWeights)

	assert.ErrorIs(t, (&Model{}).Validate(), ErrInvalidWeights)
}

func TestEncodeDecodeModel(t *testing.T) {
	m := NewModel(1, 4, 3, 42)
	var buf bytes.Buffer
	require.NoError(t, EncodeModel(&buf, m))

	decoded, err := DecodeModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestDecodeModelErrors(t *testing.T) {
	valid := WeightsOf(NewModel(1, 4, 3, 1))

	tests := []struct {
		name   string
		mutate func(w *Weights)
	}{
		{"format", func(w *Weights) { w.Format = "other" }},
		{"channels", func(w *Weights) { w.HiddenChannels = 0 }},
		{"missing tensor", func(w *Weights) { delete(w.Tensors, TensorConv2Bias) }},
		{"wrong shape", func(w *Weights) {
			w.Tensors[TensorHeadWeight] = Tensor{Shape: []int{4, 3}, Data: make([]float64, 12)}
		}},
		{"short data", func(w *Weights) {
			w.Tensors[TensorConv1Weight] = Tensor{Shape: []int{4, 1}, Data: make([]float64, 3)}
		}},
		{"declared size mismatch", func(w *Weights) { w.OutChannels = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := *valid
			w.Tensors = make(map[string]Tensor, len(valid.Tensors))
			for k, v := range valid.Tensors {
				w.Tensors[k] = v
			}
			tt.mutate(&w)
			_, err := w.Model()
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}

	_, err := DecodeModel(bytes.NewReader([]byte("{not json")))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestWeightsTensorNames(t *testing.T) {
	w := WeightsOf(NewModel(1, 2, 3, 1))
	assert.Equal(t, []string{
		TensorConv1Bias, TensorConv1Weight, TensorConv2Bias, TensorConv2Weight, TensorHeadBias, TensorHeadWeight,
	}, w.TensorNames())
}

func TestSaveLoadLocal(t *testing.T) {
	dir := t.TempDir()
	m := NewDefaultModel(3)

	for _, name := range []string{"model.json", "model.json.snappy"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, m.Save(path))

			loaded, err := Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, m, loaded)
		})
	}

	raw, err := os.ReadFile(filepath.Join(dir, "model.json.snappy"))
	require.NoError(t, err)
	_, err = snappy.Decode(nil, raw)
	assert.NoError(t, err, "saved .snappy file must be block-compressed")
}

func TestLoadCorruptSnappy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.snappy")
	require.NoError(t, os.WriteFile(path, []byte("definitely not snappy"), 0o644))

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

type fakeObjectGetter struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeObjectGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *in.Bucket + "/" + *in.Key
	f.calls = append(f.calls, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestLoadS3(t *testing.T) {
	m := NewModel(1, 8, 3, 9)
	var buf bytes.Buffer
	require.NoError(t, EncodeModel(&buf, m))

	fake := &fakeObjectGetter{objects: map[string][]byte{
		"models/gcn.json":        buf.Bytes(),
		"models/gcn.json.snappy": snappy.Encode(nil, buf.Bytes()),
	}}

	for _, loc := range []string{"s3://models/gcn.json", "s3://models/gcn.json.snappy"} {
		loaded, err := Load(context.Background(), loc, WithObjectGetter(fake))
		require.NoError(t, err, loc)
		assert.Equal(t, m, loaded)
	}
	assert.Equal(t, []string{"models/gcn.json", "models/gcn.json.snappy"}, fake.calls)

	_, err := Load(context.Background(), "s3://models/missing.json", WithObjectGetter(fake))
	assert.Error(t, err)
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://b/k", "b", "k", true},
		{"s3://bucket/dir/model.json.snappy", "bucket", "dir/model.json.snappy", true},
		{"s3://bucket", "", "", false},
		{"s3:///key", "", "", false},
		{"s3://bucket/", "", "", false},
		{"/tmp/model.json", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, ok := ParseS3URI(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.bucket, bucket, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
	}
}
