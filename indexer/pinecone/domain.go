package pinecone

type pineconeIndex struct {
	Name      string       `json:"name"`
	Dimension int          `json:"dimension"`
	Metric    string       `json:"metric"`
	Host      string       `json:"host,omitempty"`
	Spec      pineconeSpec `json:"spec"`
}

type pineconeSpec struct {
	Serverless pineconeServerless `json:"serverless"`
}

type pineconeServerless struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type pineconeVector struct {
	Id       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type pineconeUpsertRequest struct {
	Vectors []pineconeVector `json:"vectors"`
}

type pineconeQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type pineconeQueryResponse struct {
	Matches []pineconeMatch `json:"matches"`
}

type pineconeMatch struct {
	Id       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}
