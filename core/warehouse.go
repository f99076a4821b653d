package core

import "context"

// Warehouse 是外部数据仓库的只读领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 实现：
//   - store.MemoryWarehouse 实现此接口（测试/开发）
//   - store.GormWarehouse 实现此接口（关系型数据库，生产）
type Warehouse interface {
	// Name 返回仓库后端名称（用于日志）
	Name() string

	// Products 拉取当前有效的产品（已联结物料与公司位置）
	Products(ctx context.Context) ([]Product, error)

	// Feedback 拉取全量用户反馈
	Feedback(ctx context.Context) ([]Feedback, error)

	// Preferences 拉取用户偏好表
	Preferences(ctx context.Context) ([]StoredPreference, error)

	// Users 拉取用户目录
	Users(ctx context.Context) ([]User, error)

	// Companies 拉取公司表
	Companies(ctx context.Context) ([]Company, error)
}

// MatrixStore 是用户相似度矩阵的持久化接口。
//
// 语义约定：
//   - Save 为整体替换（原子发布），不做增量合并
//   - Load 在矩阵尚未构建、读取失败或解析失败时统一返回 ErrMatrixNotFound，
//     读方把它当作"矩阵不存在"处理（空结果而非错误）——这是文档化的契约，
//     写方与读方之间只保证最终一致
type MatrixStore interface {
	Name() string
	Load(ctx context.Context) (*SimilarityMatrix, error)
	Save(ctx context.Context, m *SimilarityMatrix) error
}

// ErrMatrixNotFound 表示相似度矩阵尚不可用（冷启动或读取失败）。
var ErrMatrixNotFound = NewDomainError(ModuleMatrix, ErrorCodeNotFound, "matrix: similarity matrix not available")
